package main

import (
	"fmt"
	"os"

	"github.com/goliatone/go-hlvl/pkg/model"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, describeError(err))
		os.Exit(1)
	}
}

// describeError formats failures as "kind: message".
func describeError(err error) string {
	kind := model.KindOf(err)
	if kind == "" || kind == model.KindUnknown {
		return err.Error()
	}
	return fmt.Sprintf("%s: %v", kind, err)
}
