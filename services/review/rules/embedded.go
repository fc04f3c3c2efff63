// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package rules

import (
	_ "embed"
)

// embeddedRulesYAML contains the built-in review rule definitions.
//
// The YAML file is embedded at compile time so the binary is self-contained
// and the rule set cannot drift from the code that interprets it. Operators
// who need a different rule set construct the engine through
// NewEngineFromDefinitions instead of editing files next to the binary.
//
//go:embed rules.yaml
var embeddedRulesYAML []byte
