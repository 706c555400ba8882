package utils

import "math"

func RoundWithTwoDecimalPlace(f float64) float64 {
	if f == 0 {
		return 0
	}

	return math.Round(f*100) / 100
}

func RoundWithOneDecimalPlace(f float64) float64 {
	if f == 0 {
		return 0
	}

	return math.Round(f*10) / 10
}

// Percentage calcula part/total*100 com uma casa decimal, limitado a [0,100].
// Retorna 0 quando total é zero.
func Percentage(part, total float64) float64 {
	if total <= 0 || part <= 0 {
		return 0
	}

	rate := RoundWithOneDecimalPlace(part / total * 100)
	if rate > 100 {
		return 100
	}
	return rate
}
