package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stateworks/go-implied/pkg/client"
	"github.com/stateworks/go-implied/pkg/editor"
	"github.com/stateworks/go-implied/pkg/model"
)

var (
	editServer string
	editSpec   string
)

var editCmd = &cobra.Command{
	Use:   "edit <implication>",
	Short: "Interactively edit an implication's context fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api := client.New(editServer)
		err := editLoop(cmd.Context(), surveyDriver{}, api, args[0], editSpec)
		if errors.Is(err, ErrAborted) {
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().StringVar(&editServer, "server", "http://localhost:3001", "editor server base URL")
	editCmd.Flags().StringVar(&editSpec, "spec", "", "UI spec name for suggested-field application")
}

const (
	actionAddField  = "add a field"
	actionDelete    = "delete a field"
	actionSuggested = "apply suggested fields"
	actionSave      = "save changes"
	actionQuit      = "quit"
)

// contextAPI is the slice of the editor client the loop needs.
type contextAPI interface {
	Context(ctx context.Context, file string) (*model.ContextSet, error)
	SuggestedFields(ctx context.Context, file, spec string) ([]client.SuggestedField, error)
	UpdateContext(ctx context.Context, file string, updates map[string]any, removed []string) error
}

// editLoop drives one editing session: pick a field or action, apply it
// through the session, and flush the accumulated change set on save. The
// suggested-fields action is offered only when a UI spec name was given.
func editLoop(ctx context.Context, driver promptDriver, api contextAPI, file, spec string) error {
	set, err := api.Context(ctx, file)
	if err != nil {
		return err
	}
	session := editor.NewSession(set)

	for {
		options := menuOptions(session, spec)
		choice, err := driver.Select(fmt.Sprintf("Context of %s", file), options)
		if err != nil {
			return err
		}
		fields := session.Fields()

		switch {
		case choice < len(fields):
			if err := editField(driver, session, fields[choice].Name); err != nil {
				return err
			}
		case options[choice] == actionAddField:
			if err := addField(driver, session); err != nil {
				return err
			}
		case options[choice] == actionDelete:
			if err := deleteField(driver, session); err != nil {
				return err
			}
		case options[choice] == actionSuggested:
			if err := applySuggested(ctx, driver, session, api, file, spec); err != nil {
				return err
			}
		case options[choice] == actionSave:
			if !session.Dirty() {
				driver.Info("nothing to save")
				continue
			}
			if err := api.UpdateContext(ctx, file, session.Changes(), session.Removed()); err != nil {
				driver.Info("save failed: " + err.Error())
				continue
			}
			session.MarkFlushed()
			driver.Info("saved")
		default: // quit
			if conf := session.Discard(); conf != nil {
				ok, err := driver.Confirm(conf.Prompt(), false)
				if err != nil {
					return err
				}
				if !ok {
					continue
				}
				conf.Accept()
			}
			return nil
		}
	}
}

func menuOptions(session *editor.Session, spec string) []string {
	fields := session.Fields()
	options := make([]string, 0, len(fields)+5)
	for _, field := range fields {
		options = append(options, fmt.Sprintf("%s (%s)", field.Name, field.Type()))
	}
	options = append(options, actionAddField, actionDelete)
	if spec != "" {
		options = append(options, actionSuggested)
	}
	return append(options, actionSave, actionQuit)
}

// applySuggested fetches the spec-derived missing fields and inserts each as
// an untyped null through the add flow, after one confirmation.
func applySuggested(ctx context.Context, driver promptDriver, session *editor.Session, api contextAPI, file, spec string) error {
	missing, err := api.SuggestedFields(ctx, file, spec)
	if err != nil {
		driver.Info("suggestions unavailable: " + err.Error())
		return nil
	}
	if len(missing) == 0 {
		driver.Info("context already covers every spec variable")
		return nil
	}
	ok, err := driver.Confirm(fmt.Sprintf("Add %d suggested field(s)?", len(missing)), true)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	for _, field := range missing {
		if session.Set().Has(field.Name) {
			continue
		}
		if err := session.BeginAdd(); err != nil {
			return err
		}
		if err := session.SubmitAdd(field.Name, model.TypeNull); err != nil {
			session.CancelAdd()
			driver.Info("skipped " + field.Name + ": " + err.Error())
		}
	}
	return nil
}

// editField prompts for a new raw value and retries while coercion fails, the
// same way the web editor keeps a field in edit mode after a bad parse.
func editField(driver promptDriver, session *editor.Session, name string) error {
	if err := session.BeginEdit(name); err != nil {
		return err
	}
	pending, _ := session.Pending()

	for {
		raw, err := driver.Input(fmt.Sprintf("New value for %s", name), "", pending.RawText, nil)
		if err != nil {
			session.CancelEdit()
			return err
		}
		if err := session.UpdateDraft(raw); err != nil {
			return err
		}
		if err := session.SaveEdit(); err != nil {
			var coercion *model.CoercionError
			if errors.As(err, &coercion) {
				driver.Info(coercion.Error())
				continue
			}
			return err
		}
		return nil
	}
}

func addField(driver promptDriver, session *editor.Session) error {
	if err := session.BeginAdd(); err != nil {
		return err
	}
	name, err := driver.Input("Field name", "a valid JavaScript identifier", "", func(text string) error {
		if verr := model.ValidateName(text, session.Set().Names()); verr != nil {
			return verr
		}
		return nil
	})
	if err != nil {
		session.CancelAdd()
		return err
	}

	types := model.DeclaredTypes()
	options := make([]string, len(types))
	for i, declared := range types {
		options[i] = string(declared)
	}
	choice, err := driver.Select("Field type", options)
	if err != nil {
		session.CancelAdd()
		return err
	}
	return session.SubmitAdd(name, types[choice])
}

func deleteField(driver promptDriver, session *editor.Session) error {
	fields := session.Fields()
	if len(fields) == 0 {
		driver.Info("no fields to delete")
		return nil
	}
	options := make([]string, len(fields))
	for i, field := range fields {
		options[i] = field.Name
	}
	choice, err := driver.Select("Delete which field", options)
	if err != nil {
		return err
	}
	conf, err := session.Delete(options[choice])
	if err != nil {
		return err
	}
	ok, err := driver.Confirm(conf.Prompt(), false)
	if err != nil {
		return err
	}
	if ok {
		conf.Accept()
	}
	return nil
}
