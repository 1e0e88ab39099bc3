/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.

* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package utils

import (
	"math"
	"strconv"
	"strings"
)

func Contains(s []string, e string) bool {
	for _, a := range s {
		if a == e {
			return true
		}
	}
	return false
}

// FormatThousands renders value with the given number of decimals and a comma between every group of three integer digits
func FormatThousands(value float64, decimals int) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return strconv.FormatFloat(value, 'f', decimals, 64)
	}
	if decimals < 0 {
		decimals = 0
	}
	formatted := strconv.FormatFloat(math.Abs(value), 'f', decimals, 64)
	intPart, fracPart, hasFrac := strings.Cut(formatted, ".")

	var sb strings.Builder
	if value < 0 && strings.Trim(formatted, "0.") != "" {
		sb.WriteByte('-')
	}
	lead := len(intPart) % 3
	if lead == 0 {
		lead = 3
	}
	sb.WriteString(intPart[:lead])
	for i := lead; i < len(intPart); i += 3 {
		sb.WriteByte(',')
		sb.WriteString(intPart[i : i+3])
	}
	if hasFrac {
		sb.WriteByte('.')
		sb.WriteString(fracPart)
	}
	return sb.String()
}

// FormatDollars is FormatThousands with a leading dollar sign
func FormatDollars(value float64, decimals int) string {
	formatted := FormatThousands(value, decimals)
	if strings.HasPrefix(formatted, "-") {
		return "-$" + formatted[1:]
	}
	return "$" + formatted
}

// ReturnOnInvestment is the percentage gained on cost; ok is false when cost is not positive
func ReturnOnInvestment(revenue, cost float64) (roi float64, ok bool) {
	if cost <= 0 {
		return 0, false
	}
	return (revenue - cost) / cost * 100, true
}
