// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package review

import "errors"

var (
	// ErrTooManyFiles is returned when an upload carries more files than
	// the configured limit.
	ErrTooManyFiles = errors.New("too many files in upload")

	// ErrFileTooLarge is returned when a single uploaded file exceeds the
	// configured size limit.
	ErrFileTooLarge = errors.New("uploaded file exceeds size limit")

	// ErrNoFiles is returned when a multipart upload carries no files
	// under the "files" field.
	ErrNoFiles = errors.New("no files in upload")
)
