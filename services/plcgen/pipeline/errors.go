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

import "fmt"

// ValidationError rejects a requirement before any external call is
// made. Always user-correctable: the message tells the caller what to
// fix in their input.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid requirement: " + e.Reason
}

// GenerationError wraps a failed or timed-out call to the generation
// backend. The pipeline never retries; the retry decision belongs to
// the caller, so the message suggests it.
type GenerationError struct {
	Err     error
	Timeout bool
}

func (e *GenerationError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("generation timed out: %v (try again or raise the timeout)", e.Err)
	}
	return fmt.Sprintf("generation failed: %v (try again)", e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
