package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/stateworks/go-implied/internal/store"
	"github.com/stateworks/go-implied/pkg/suggest"
	"github.com/stateworks/go-implied/pkg/uispec"
)

var (
	suggestRoot  string
	suggestApply bool
)

var suggestCmd = &cobra.Command{
	Use:   "suggest <implication> <ui-spec>",
	Short: "Show UI spec variables missing from an implication's context",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := store.Open(suggestRoot)
		if err != nil {
			return err
		}
		defer s.Close()

		doc, err := s.Load(args[0])
		if err != nil {
			return err
		}

		data, err := os.ReadFile(args[1])
		if err != nil {
			return err
		}
		spec, err := uispec.Parse(data, filepath.Base(args[1]))
		if err != nil {
			return err
		}

		missing := suggest.Reconcile(spec.Suggestions(), doc.Context)
		if len(missing) == 0 {
			fmt.Println("context already covers every spec variable")
			return nil
		}
		for _, field := range missing {
			fmt.Printf("%-24s %-8s %s\n", field.Name, field.Confidence(), field.Reason)
		}

		if suggestApply {
			doc.Context = suggest.ApplyAll(missing, doc.Context)
			if err := s.Save(args[0], doc); err != nil {
				return err
			}
			fmt.Printf("added %d field(s) to %s\n", len(missing), args[0])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(suggestCmd)
	suggestCmd.Flags().StringVar(&suggestRoot, "root", ".", "directory holding implication JSON files")
	suggestCmd.Flags().BoolVar(&suggestApply, "apply", false, "add every missing field as an untyped null")
}
