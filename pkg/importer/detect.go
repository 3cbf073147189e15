package importer

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

// Format identifies one of the supported source dialects.
type Format string

// The supported dialects, in detection priority order.
const (
	FormatLiquibase        Format = "liquibase"
	FormatODCS             Format = "odcs"
	FormatDataContractSpec Format = "dcs"
	FormatSimpleTabular    Format = "simple"
)

// Formats lists the supported dialects in detection order.
func Formats() []Format {
	return []Format{FormatLiquibase, FormatODCS, FormatDataContractSpec, FormatSimpleTabular}
}

// DetectFormat selects the dialect parser for a decoded document. The
// predicates run in a fixed priority order and the simple tabular form is
// the unconditional fallback, so detection never fails to pick a variant —
// the fallback parser enforces its own required shape instead.
func DetectFormat(root map[string]any) Format {
	switch {
	case isLiquibase(root):
		return FormatLiquibase
	case isODCS(root):
		return FormatODCS
	case isDataContractSpec(root):
		return FormatDataContractSpec
	}
	return FormatSimpleTabular
}

// isLiquibase matches on the changelog root key, or on a changeSet marker
// anywhere in the serialized document: changelogs sometimes arrive as bare
// changeSet fragments without the outer wrapper.
func isLiquibase(root map[string]any) bool {
	if _, ok := root["databaseChangeLog"]; ok {
		return true
	}
	out, err := yaml.Marshal(root)
	return err == nil && bytes.Contains(out, []byte("changeSet"))
}

// isODCS requires the current standard's four marker fields. Only kind is
// checked by value; the others need only be present.
func isODCS(root map[string]any) bool {
	_, hasAPIVersion := root["apiVersion"]
	_, hasID := root["id"]
	_, hasVersion := root["version"]
	return hasAPIVersion && hasID && hasVersion && stringField(root, "kind") == "DataContract"
}

func isDataContractSpec(root map[string]any) bool {
	if _, ok := root["dataContractSpecification"]; !ok {
		return false
	}
	_, ok := asMap(root["models"])
	return ok
}
