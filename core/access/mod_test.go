package access

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/ledgertx/core/isi"
)

func Test_Compile(t *testing.T) {
	str := Compile("a", "b", "c")
	require.Equal(t, str, "a:b:c")
}

func TestInstructionRule(t *testing.T) {
	require.Equal(t, "isi:Mint", InstructionRule(isi.Mint))
	require.Equal(t, "isi:SetKeyValue", InstructionRule(isi.SetKeyValue))
}
