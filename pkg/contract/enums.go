package contract

import "strings"

// MedallionLayer identifies a medallion-architecture warehouse layer.
type MedallionLayer string

// Medallion layer constants, ordered from rawest to most refined.
const (
	LayerLanding  MedallionLayer = "landing"
	LayerBronze   MedallionLayer = "bronze"
	LayerSilver   MedallionLayer = "silver"
	LayerGold     MedallionLayer = "gold"
	LayerPlatinum MedallionLayer = "platinum"
)

// ParseMedallionLayer matches a source string against the known layers,
// ignoring case and surrounding whitespace.
func ParseMedallionLayer(s string) (MedallionLayer, bool) {
	switch MedallionLayer(strings.ToLower(strings.TrimSpace(s))) {
	case LayerLanding:
		return LayerLanding, true
	case LayerBronze:
		return LayerBronze, true
	case LayerSilver:
		return LayerSilver, true
	case LayerGold:
		return LayerGold, true
	case LayerPlatinum:
		return LayerPlatinum, true
	}
	return "", false
}

// SCDPattern identifies a slowly-changing-dimension handling pattern.
type SCDPattern string

// SCD pattern constants. SCD5 is deliberately absent: it is a composite of
// SCD1 and SCD4 and is not modelled by the source dialects.
const (
	SCDType0 SCDPattern = "scd0"
	SCDType1 SCDPattern = "scd1"
	SCDType2 SCDPattern = "scd2"
	SCDType3 SCDPattern = "scd3"
	SCDType4 SCDPattern = "scd4"
	SCDType6 SCDPattern = "scd6"
)

// ParseSCDPattern matches a source string against the known SCD patterns,
// ignoring case, whitespace, and a "type" or underscore spelling
// ("SCD_2", "type2" and "scd2" all match SCDType2).
func ParseSCDPattern(s string) (SCDPattern, bool) {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.ReplaceAll(v, "_", "")
	v = strings.ReplaceAll(v, "-", "")
	v = strings.ReplaceAll(v, " ", "")
	if rest, ok := strings.CutPrefix(v, "type"); ok {
		v = "scd" + rest
	}
	switch SCDPattern(v) {
	case SCDType0:
		return SCDType0, true
	case SCDType1:
		return SCDType1, true
	case SCDType2:
		return SCDType2, true
	case SCDType3:
		return SCDType3, true
	case SCDType4:
		return SCDType4, true
	case SCDType6:
		return SCDType6, true
	}
	return "", false
}

// DataVaultClass identifies a Data Vault 2.0 entity classification.
type DataVaultClass string

// Data Vault classification constants.
const (
	VaultHub       DataVaultClass = "hub"
	VaultLink      DataVaultClass = "link"
	VaultSatellite DataVaultClass = "satellite"
	VaultPIT       DataVaultClass = "pit"
	VaultBridge    DataVaultClass = "bridge"
	VaultReference DataVaultClass = "reference"
)

// ParseDataVaultClass matches a source string against the known Data Vault
// classifications, ignoring case and surrounding whitespace.
func ParseDataVaultClass(s string) (DataVaultClass, bool) {
	switch DataVaultClass(strings.ToLower(strings.TrimSpace(s))) {
	case VaultHub:
		return VaultHub, true
	case VaultLink:
		return VaultLink, true
	case VaultSatellite:
		return VaultSatellite, true
	case VaultPIT:
		return VaultPIT, true
	case VaultBridge:
		return VaultBridge, true
	case VaultReference:
		return VaultReference, true
	}
	return "", false
}

// RelationshipType is the kind of a relationship edge.
type RelationshipType string

// RelationshipForeignKey is the only edge kind produced today; both $ref
// pointers and legacy foreign-key declarations map onto it.
const RelationshipForeignKey RelationshipType = "foreignKey"
