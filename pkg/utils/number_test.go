package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentage(t *testing.T) {
	tests := []struct {
		name     string
		part     float64
		total    float64
		expected float64
	}{
		{name: "Taxa simples", part: 3, total: 10, expected: 30},
		{name: "Arredonda em uma casa", part: 1, total: 3, expected: 33.3},
		{name: "Denominador zero retorna zero", part: 5, total: 0, expected: 0},
		{name: "Numerador maior que denominador é limitado a 100", part: 12, total: 10, expected: 100},
		{name: "Valores negativos retornam zero", part: -1, total: 10, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentage(tt.part, tt.total)
			assert.Equal(t, tt.expected, got)
			assert.False(t, math.IsNaN(got))
		})
	}
}

func TestRoundWithOneDecimalPlace(t *testing.T) {
	assert.Equal(t, 0.0, RoundWithOneDecimalPlace(0))
	assert.Equal(t, 12.3, RoundWithOneDecimalPlace(12.34))
	assert.Equal(t, 12.4, RoundWithOneDecimalPlace(12.36))
}
