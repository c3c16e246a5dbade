package utils

import (
	"math"
	"strconv"
)

const (
	fileSizeBase      = 1024
	zeroFileSizeLabel = "0 Bytes"
)

var fileSizeUnits = []string{"Bytes", "KB", "MB", "GB", "TB", "PB", "EB"}

// FormatFileSize renders a byte count with binary multiples and at most two decimals,
// for example "512 Bytes", "1.5 KB" or "10 MB".
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return zeroFileSizeLabel
	}
	value := float64(bytes)
	unitIndex := 0
	for value >= fileSizeBase && unitIndex < len(fileSizeUnits)-1 {
		value /= fileSizeBase
		unitIndex++
	}
	rounded := math.Round(value*100) / 100
	if rounded >= fileSizeBase && unitIndex < len(fileSizeUnits)-1 {
		rounded = math.Round(rounded/fileSizeBase*100) / 100
		unitIndex++
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64) + " " + fileSizeUnits[unitIndex]
}
