package logfields

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHelpers(t *testing.T) {
	assert.Equal(t, KeyStage, Stage("expand").Key)
	assert.Equal(t, "expand", Stage("expand").Value.String())
	assert.Equal(t, int64(2), ExitCode(2).Value.Int64())
	assert.Equal(t, KeyOutputs, Outputs([]string{"main.pdf"}).Key)
}

func TestError(t *testing.T) {
	assert.Equal(t, "", Error(nil).Value.String())
	assert.Equal(t, "boom", Error(errors.New("boom")).Value.String())
}
