/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
)

var sizeUnits = [...]string{"kB", "MB", "GB", "TB", "PB", "EB"}

// humanReadableSize formats a byte count with decimal (SI) units.
func humanReadableSize(bytes int64) string {
	if bytes < 1000 {
		return fmt.Sprintf("%d B", bytes)
	}

	value := float64(bytes)
	unit := -1
	for value >= 1000 && unit < len(sizeUnits)-1 {
		value /= 1000
		unit++
	}

	return fmt.Sprintf("%.1f %s", value, sizeUnits[unit])
}
