// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package pipeline

import (
	"fmt"
	"strings"
)

// MaxRequirementLen caps requirement text, in bytes after trimming.
// Long requirements degrade generation quality well before this point;
// the cap mainly stops accidental file pastes.
const MaxRequirementLen = 8192

// NormalizeRequirement trims and validates raw requirement text.
//
// # Outputs
//
//   - string: The trimmed requirement.
//   - error: *ValidationError when the text is empty, whitespace-only,
//     or over MaxRequirementLen. The error is returned before any
//     generation call is attempted.
func NormalizeRequirement(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", &ValidationError{Reason: "requirement text is empty"}
	}
	if len(trimmed) > MaxRequirementLen {
		return "", &ValidationError{
			Reason: fmt.Sprintf("requirement text exceeds %d bytes (got %d)", MaxRequirementLen, len(trimmed)),
		}
	}
	return trimmed, nil
}
