// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseYearFilter(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "", want: ""},
		{in: "  ", want: ""},
		{in: "2021", want: "2021"},
		{in: "2018-2021", want: "2018-2021"},
		{in: "2018-", want: "2018-"},
		{in: "-2021", want: "-2021"},
		{in: "2021-2018", wantErr: true},
		{in: "-", wantErr: true},
		{in: "21", wantErr: true},
		{in: "20211", wantErr: true},
		{in: "abcd", wantErr: true},
		{in: "2018-2019-2020", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseYearFilter(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
