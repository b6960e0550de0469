package variation

import (
	"fmt"
)

// ScoreSymbolID is an opaque notation glyph code, a four character code
// shared with hosts across the binary boundary.
type ScoreSymbolID uint32

// FourCC packs a four character ASCII code into a ScoreSymbolID. Inputs
// that are not exactly four bytes return 0.
func FourCC(s string) ScoreSymbolID {
	if len(s) != 4 {
		return 0
	}
	return ScoreSymbolID(s[0])<<24 | ScoreSymbolID(s[1])<<16 |
		ScoreSymbolID(s[2])<<8 | ScoreSymbolID(s[3])
}

func (id ScoreSymbolID) String() string {
	b := [4]byte{byte(id >> 24), byte(id >> 16), byte(id >> 8), byte(id)}
	for _, c := range b {
		if c < 0x20 || c > 0x7e {
			return fmt.Sprintf("0x%08X", uint32(id))
		}
	}
	return string(b[:])
}

// Score symbol codes of the sound variation extension.
const (
	SymbolStaccato                  ScoreSymbolID = 0x73746163 // 'stac'
	SymbolStaccatissimo             ScoreSymbolID = 0x73746973 // 'stis'
	SymbolTenuto                    ScoreSymbolID = 0x74656E75 // 'tenu'
	SymbolAccent                    ScoreSymbolID = 0x61636365 // 'acce'
	SymbolStrongAccent              ScoreSymbolID = 0x6D617263 // 'marc'
	SymbolForceFP                   ScoreSymbolID = 0x66706E6F // 'fpno'
	SymbolForceFFP                  ScoreSymbolID = 0x6666706E // 'ffpn'
	SymbolForceFZ                   ScoreSymbolID = 0x667A646F // 'fzdo'
	SymbolForceFFZ                  ScoreSymbolID = 0x66667A6F // 'ffzo'
	SymbolForceSF                   ScoreSymbolID = 0x7366646F // 'sfdo'
	SymbolForceSFF                  ScoreSymbolID = 0x7366666F // 'sffo'
	SymbolForceSFZ                  ScoreSymbolID = 0x73667A6F // 'sfzo'
	SymbolForceSFFZ                 ScoreSymbolID = 0x7366667A // 'sffz'
	SymbolForceSFP                  ScoreSymbolID = 0x7366706F // 'sfpo'
	SymbolForceSFFP                 ScoreSymbolID = 0x73666670 // 'sffp'
	SymbolMezzoStaccato             ScoreSymbolID = 0x6D7A7363 // 'mzsc'
	SymbolAccentTenuto              ScoreSymbolID = 0x6163746E // 'actn'
	SymbolAccentStaccato            ScoreSymbolID = 0x61637374 // 'acst'
	SymbolAccentStaccatissimo       ScoreSymbolID = 0x6163736F // 'acso'
	SymbolStrongAccentTenuto        ScoreSymbolID = 0x6D72746E // 'mrtn'
	SymbolStrongAccentStaccato      ScoreSymbolID = 0x6D727374 // 'mrst'
	SymbolStrongAccentStaccatissimo ScoreSymbolID = 0x6D72736F // 'mrso'
	SymbolTremolo1                  ScoreSymbolID = 0x74726D31 // 'trm1'
	SymbolTremolo2                  ScoreSymbolID = 0x74726D32 // 'trm2'
	SymbolTremolo3                  ScoreSymbolID = 0x74726D33 // 'trm3'
	SymbolIntervalTremolo1          ScoreSymbolID = 0x69747231 // 'itr1'
	SymbolIntervalTremolo2          ScoreSymbolID = 0x69747232 // 'itr2'
	SymbolIntervalTremolo3          ScoreSymbolID = 0x69747233 // 'itr3'
	SymbolArpeggioNormal            ScoreSymbolID = 0x6172704E // 'arpN'
	SymbolArpeggioUp                ScoreSymbolID = 0x61727055 // 'arpU'
	SymbolArpeggioDown              ScoreSymbolID = 0x61727044 // 'arpD'
	SymbolGlissando                 ScoreSymbolID = 0x676C7373 // 'glss'
	SymbolPortamento                ScoreSymbolID = 0x706F7274 // 'port'
	SymbolSlur                      ScoreSymbolID = 0x736C7572 // 'slur'
	SymbolTrillHalftone             ScoreSymbolID = 0x74724854 // 'trHT'
	SymbolTrillWholetone            ScoreSymbolID = 0x74725754 // 'trWT'
	SymbolVibrato                   ScoreSymbolID = 0x76696272 // 'vibr'
	SymbolWideVibrato               ScoreSymbolID = 0x77766962 // 'wvib'
	SymbolCircle                    ScoreSymbolID = 0x63697263 // 'circ'
	SymbolPlus                      ScoreSymbolID = 0x706C7573 // 'plus'
	SymbolLaissezVibrer             ScoreSymbolID = 0x6C766962 // 'lvib'
	SymbolConSordino                ScoreSymbolID = 0x736F7264 // 'sord'
	SymbolSenzaSordino              ScoreSymbolID = 0x73736F72 // 'ssor'
	SymbolArco                      ScoreSymbolID = 0x6172636F // 'arco'
	SymbolPizzicato                 ScoreSymbolID = 0x70697A7A // 'pizz'
	SymbolColLegno                  ScoreSymbolID = 0x6C65676E // 'legn'
	SymbolSulPonticello             ScoreSymbolID = 0x706F6E74 // 'pont'
	SymbolSulTasto                  ScoreSymbolID = 0x74617374 // 'tast'
	SymbolBehindBridge              ScoreSymbolID = 0x62686E64 // 'bhnd'
	SymbolDownBow                   ScoreSymbolID = 0x646E6277 // 'dnbw'
	SymbolUpBow                     ScoreSymbolID = 0x75706277 // 'upbw'
	SymbolBartokPizzicato           ScoreSymbolID = 0x736E6170 // 'snap'
	SymbolPedalDown                 ScoreSymbolID = 0x7064646E // 'pddn'
	SymbolPedalUp                   ScoreSymbolID = 0x70647570 // 'pdup'
	SymbolHammerOn                  ScoreSymbolID = 0x686D6F6E // 'hmon'
	SymbolPullOff                   ScoreSymbolID = 0x706C6F66 // 'plof'
	SymbolGuitarTap                 ScoreSymbolID = 0x67746170 // 'gtap'
)
