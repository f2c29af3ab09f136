package comptroller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryParams(t *testing.T) {
	tests := []struct {
		name    string
		query   Query
		wantKey string
		wantVal string
	}{
		{"name", Query{Name: "Acme"}, "name", "Acme"},
		{"taxpayer id", Query{TaxpayerID: "32066021794"}, "taxpayerId", "32066021794"},
		{"file number", Query{FileNumber: "0802914689"}, "fileNumber", "0802914689"},
		{"name wins over taxpayer id", Query{Name: "Acme", TaxpayerID: "123"}, "name", "Acme"},
		{"taxpayer id wins over file number", Query{TaxpayerID: "123", FileNumber: "456"}, "taxpayerId", "123"},
		{"name wins over all", Query{Name: "Acme", TaxpayerID: "123", FileNumber: "456"}, "name", "Acme"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			params, err := tc.query.Params()
			require.NoError(t, err)
			assert.Len(t, params, 1)
			assert.Equal(t, tc.wantVal, params.Get(tc.wantKey))
		})
	}
}

func TestQueryParams_Empty(t *testing.T) {
	_, err := Query{}.Params()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoQuery)
}
