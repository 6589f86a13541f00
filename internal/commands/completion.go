package commands

import (
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

var kindPredictor = predict.Set{"incoming", "outgoing"}

func entryCompletion() *complete.Command {
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"type":        kindPredictor,
			"date":        predict.Nothing,
			"description": predict.Nothing,
			"amount":      predict.Nothing,
		},
	}
}

// Completion describes the command line for shell completion. Running the
// binary with COMP_LINE set prints candidates instead of executing.
func Completion() *complete.Command {
	return &complete.Command{
		Sub: map[string]*complete.Command{
			"add":     entryCompletion(),
			"edit":    entryCompletion(),
			"show":    {},
			"delete":  {},
			"list":    {},
			"summary": {},
			"period":  {},
			"export": {
				Flags: map[string]complete.Predictor{"dir": predict.Dirs("*")},
			},
			"print": {
				Flags: map[string]complete.Predictor{"style": predict.Set{"auto", "dark", "light", "notty"}},
			},
			"sheets-export": {},
			"shell":         {},
			"help":          {},
			"flags":         {},
			"commands":      {},
		},
	}
}
