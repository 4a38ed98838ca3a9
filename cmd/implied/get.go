package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stateworks/go-implied/internal/store"
	"github.com/stateworks/go-implied/pkg/model"
)

var (
	getRoot string
	getJSON bool
)

var getCmd = &cobra.Command{
	Use:   "get <implication>",
	Short: "Print an implication's context fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := store.Open(getRoot)
		if err != nil {
			return err
		}
		defer s.Close()

		doc, err := s.Load(args[0])
		if err != nil {
			return err
		}

		if getJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(doc.Context)
		}

		for _, field := range doc.Context.Fields() {
			fmt.Printf("%-24s %-8s %s\n", field.Name, field.Type(), model.Format(field.Value))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
	getCmd.Flags().StringVar(&getRoot, "root", ".", "directory holding implication JSON files")
	getCmd.Flags().BoolVar(&getJSON, "json", false, "output as JSON")
}
