package plugin

// Info contains plugin metadata
type Info struct {
	ID       string // Unique plugin identifier (e.g., "com.example.myinstrument")
	Name     string // Display name
	Version  string // Semantic version (e.g., "1.0.0")
	Vendor   string // Company/developer name
	Category string // Plugin category (e.g., "Instrument")
}

// UID converts the string ID to a 16-byte array for the host registry
func (i Info) UID() [16]byte {
	var uid [16]byte
	idBytes := []byte(i.ID)
	for j := 0; j < 16 && j < len(idBytes); j++ {
		uid[j] = idBytes[j]
	}
	return uid
}
