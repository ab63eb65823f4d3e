package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCell(t *testing.T) {
	type move struct {
		Position []int `validate:"cell"`
	}

	tests := []struct {
		name     string
		position []int
		wantErr  bool
	}{
		{name: "absent", position: nil},
		{name: "row and col", position: []int{0, 2}},
		{name: "out of range is left to the engine", position: []int{7, -1}},
		{name: "single value", position: []int{1}, wantErr: true},
		{name: "three values", position: []int{1, 1, 1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := GetValidator().Struct(move{Position: tt.position})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
