// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package iec_engine

import "strings"

// Dialect is one of the five IEC 61131-3 programming languages.
//
// The set is closed: every dialect carries its own ordered rule table in
// the engine, and dispatch is by table lookup, never by runtime type
// inspection.
type Dialect string

const (
	DialectST  Dialect = "ST"  // Structured Text
	DialectLD  Dialect = "LD"  // Ladder Diagram
	DialectFBD Dialect = "FBD" // Function Block Diagram
	DialectSFC Dialect = "SFC" // Sequential Function Chart
	DialectIL  Dialect = "IL"  // Instruction List
)

// Dialects lists all supported dialects in canonical order.
var Dialects = []Dialect{DialectST, DialectLD, DialectFBD, DialectSFC, DialectIL}

// ParseDialect maps a request string to a Dialect.
//
// # Inputs
//
//   - s: Raw dialect value from the request, case-insensitive.
//
// # Outputs
//
//   - Dialect: The matched dialect.
//   - error: *ConfigurationError if the value is not one of ST, LD, FBD,
//     SFC, IL. This is a caller bug, not a validation outcome.
func ParseDialect(s string) (Dialect, error) {
	d := Dialect(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Dialects {
		if d == known {
			return d, nil
		}
	}
	return "", &ConfigurationError{Field: "dialect", Value: s}
}

// TextFormat reports the artifact format for a dialect: ST and IL are
// plain text, the graphical dialects are serialized as XML.
func (d Dialect) TextFormat() string {
	if d == DialectST || d == DialectIL {
		return "text"
	}
	return "xml"
}

// FileExtension returns the download extension for a dialect artifact.
func (d Dialect) FileExtension() string {
	switch d {
	case DialectST:
		return ".st"
	case DialectIL:
		return ".il"
	default:
		return ".xml"
	}
}

// Vendor identifies a PLC manufacturer profile. Vendor rules layer
// additional keyword checks on top of a dialect's generic rules; they
// never replace them.
type Vendor string

const (
	VendorGeneric    Vendor = "generic"
	VendorSiemens    Vendor = "siemens"
	VendorMitsubishi Vendor = "mitsubishi"
	VendorAB         Vendor = "ab" // Allen-Bradley
	VendorSchneider  Vendor = "schneider"
)

// Vendors lists all supported vendor brands in canonical order.
var Vendors = []Vendor{VendorGeneric, VendorSiemens, VendorMitsubishi, VendorAB, VendorSchneider}

// ParseVendor maps a request string to a Vendor.
//
// # Outputs
//
//   - Vendor: The matched vendor brand.
//   - error: *ConfigurationError for unknown values. The common
//     "allen-bradley" spelling is accepted as an alias for "ab".
func ParseVendor(s string) (Vendor, error) {
	v := Vendor(strings.ToLower(strings.TrimSpace(s)))
	if v == "allen-bradley" {
		v = VendorAB
	}
	for _, known := range Vendors {
		if v == known {
			return v, nil
		}
	}
	return "", &ConfigurationError{Field: "vendor", Value: s}
}
