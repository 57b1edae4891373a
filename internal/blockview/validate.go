/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package blockview

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
)

var reIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// validateSlot checks a scalar value against a slot definition. Expression
// slots are compiled only, never evaluated: the check catches syntax errors
// while the expression's meaning stays opaque to the editor.
func validateSlot(def SlotDef, value string) error {
	trimmed := strings.TrimSpace(value)
	if def.Required && trimmed == "" {
		return errors.New("value is required")
	}
	if trimmed == "" {
		return nil
	}
	switch def.Rule {
	case RuleIdentifier:
		if !reIdentifier.MatchString(trimmed) {
			return fmt.Errorf("%q is not an identifier", value)
		}
	case RuleLabelName:
		if !reIdentifier.MatchString(trimmed) {
			return fmt.Errorf("%q is not a label name", value)
		}
	case RuleNumber:
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return fmt.Errorf("%q is not a number", value)
		}
		if f < 0 {
			return fmt.Errorf("%q is negative", value)
		}
	case RuleFlag:
		if trimmed != "true" && trimmed != "false" {
			return fmt.Errorf("%q is not true/false", value)
		}
	case RuleExpression:
		if _, err := expr.Compile(value); err != nil {
			return fmt.Errorf("expression does not parse: %v", err)
		}
	}
	return nil
}
