package sweep

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adbsweep/adbsweep/internal/errors"
)

func TestResolvePorts(t *testing.T) {
	tests := []struct {
		name string
		spec string
		want []uint16
		kind errors.Kind
	}{
		{
			name: "single port",
			spec: "5555",
			want: []uint16{5555},
		},
		{
			name: "comma list",
			spec: "5037,5555,22,23",
			want: []uint16{5037, 5555, 22, 23},
		},
		{
			name: "range",
			spec: "5550-5555",
			want: []uint16{5550, 5551, 5552, 5553, 5554, 5555},
		},
		{
			name: "mixed list and range",
			spec: "22,5550-5552,23",
			want: []uint16{22, 5550, 5551, 5552, 23},
		},
		{
			name: "duplicates collapse keeping first position",
			spec: "5555,22,5555,22",
			want: []uint16{5555, 22},
		},
		{
			name: "range overlapping earlier single",
			spec: "5551,5550-5552",
			want: []uint16{5551, 5550, 5552},
		},
		{
			name: "whitespace tolerated",
			spec: " 22 , 23 ",
			want: []uint16{22, 23},
		},
		{
			name: "single element range",
			spec: "80-80",
			want: []uint16{80},
		},
		{
			name: "empty spec",
			spec: "",
			kind: errors.KindInvalidPortSpec,
		},
		{
			name: "empty element",
			spec: "22,,23",
			kind: errors.KindInvalidPortSpec,
		},
		{
			name: "non-numeric",
			spec: "adb",
			kind: errors.KindInvalidPortSpec,
		},
		{
			name: "inverted range",
			spec: "5555-5550",
			kind: errors.KindInvalidPortSpec,
		},
		{
			name: "triple dash",
			spec: "1-2-3",
			kind: errors.KindInvalidPortSpec,
		},
		{
			name: "port zero",
			spec: "0",
			kind: errors.KindInvalidPort,
		},
		{
			name: "port above maximum",
			spec: "65536",
			kind: errors.KindInvalidPort,
		},
		{
			name: "range endpoint above maximum",
			spec: "65530-65540",
			kind: errors.KindInvalidPort,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolvePorts(tt.spec)
			if tt.kind != "" {
				require.Error(t, err)
				assert.Equal(t, tt.kind, errors.GetKind(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolvePortsFullRange(t *testing.T) {
	ports, err := ResolvePorts("1-65535")
	require.NoError(t, err)
	assert.Len(t, ports, 65535)
	assert.Equal(t, uint16(1), ports[0])
	assert.Equal(t, uint16(65535), ports[len(ports)-1])
}
