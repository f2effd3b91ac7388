package logger_test

import (
	"os"
	"testing"

	"github.com/evanw/jsfold/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeferLogSortsMessages(t *testing.T) {
	log := logger.NewDeferLog(logger.DeferLogAll)
	log.AddWarning(&logger.MsgLocation{File: "b.json", Line: 1}, "second file")
	log.AddError(&logger.MsgLocation{File: "a.json", Line: 3}, "later line")
	log.AddError(&logger.MsgLocation{File: "a.json", Line: 2}, "earlier line")
	log.AddDebug("no location")

	assert.True(t, log.HasErrors())
	msgs := log.Done()
	require.Len(t, msgs, 4)
	assert.Equal(t, "no location", msgs[0].Text)
	assert.Equal(t, "earlier line", msgs[1].Text)
	assert.Equal(t, "later line", msgs[2].Text)
	assert.Equal(t, "second file", msgs[3].Text)
}

func TestDeferLogDropsDebug(t *testing.T) {
	log := logger.NewDeferLog(logger.DeferLogNoVerboseOrDebug)
	log.AddDebug("pass 1 changed")
	log.AddVerbose("details")
	assert.False(t, log.HasErrors())
	assert.Empty(t, log.Done())
}

func TestMsgString(t *testing.T) {
	msg := logger.Msg{
		Kind:     logger.Error,
		Text:     "Unsupported node type \"JSXElement\"",
		Location: &logger.MsgLocation{File: "input.json", Line: 4, Column: 2},
	}
	assert.Equal(t, "input.json:4:2: error: Unsupported node type \"JSXElement\"\n", msg.String(logger.OutputOptions{}, logger.TerminalInfo{}))
	assert.Equal(t, "debug: pass 2 changed\n", logger.MsgsToString([]logger.Msg{{Kind: logger.Debug, Text: "pass 2 changed"}}))
}

func TestTerminalInfoForRegularFile(t *testing.T) {
	file, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer file.Close()

	info := logger.GetTerminalInfo(file)
	assert.False(t, info.IsTTY)
	assert.False(t, info.UseColorEscapes)
}
