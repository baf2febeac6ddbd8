package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	prefs "github.com/goliatone/go-storyprefs"
	"github.com/goliatone/go-storyprefs/pkg/controls"
	"github.com/urfave/cli/v2"
)

var errUsage = errors.New("storyprefs: invalid usage")

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "storyprefs",
		Usage:     "inspect and edit bedtime story settings",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a YAML configuration file",
				EnvVars: []string{"STORYPREFS_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "print the current settings",
				Flags:  []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "print the stored JSON record"}},
				Action: withSession(stderr, showAction),
			},
			{
				Name:      "set",
				Usage:     "set one field; selections take a comma separated list",
				ArgsUsage: "<field> <value>",
				Action:    withSession(stderr, setAction),
			},
			{
				Name:      "toggle",
				Usage:     "add or remove one theme or topic",
				ArgsUsage: "<themes|topics> <item>",
				Action:    withSession(stderr, toggleAction),
			},
			{
				Name:      "options",
				Usage:     "list the choices for a field",
				ArgsUsage: "<languages|lengths|themes|topics>",
				Action:    withSession(stderr, optionsAction),
			},
			{
				Name:   "reset",
				Usage:  "restore and persist the default settings",
				Action: withSession(stderr, resetAction),
			},
			{
				Name:   "erase",
				Usage:  "remove the stored settings",
				Action: withSession(stderr, eraseAction),
			},
			{
				Name:      "story",
				Usage:     "print the story request built from the settings",
				ArgsUsage: "<made_up|classic|mixed> [modifications]",
				Action:    withSession(stderr, storyAction),
			},
			{
				Name:   "schema",
				Usage:  "describe the settings fields",
				Action: withSession(stderr, schemaAction),
			},
		},
	}
}

func withSession(logOut io.Writer, fn func(*cli.Context, *session) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		s, err := openSession(c.Context, c.String("config"), logOut)
		if err != nil {
			return err
		}
		defer s.Close()
		return fn(c, s)
	}
}

func showAction(c *cli.Context, s *session) error {
	st := s.store.State()
	if c.Bool("json") {
		blob, err := prefs.Serialize(st.Settings)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, blob)
		return nil
	}

	out := c.App.Writer
	if msg := st.ErrorMessage(); msg != "" {
		fmt.Fprintf(out, "error: %s\n", msg)
	}
	f := s.form
	fmt.Fprintf(out, "%s: %s\n", f.Language.Label(), f.Language.Display())
	fmt.Fprintf(out, "%s: %s\n", f.Length.Label(), f.Length.Display())
	fmt.Fprintf(out, "%s: %s\n", f.ChildName.Label(), f.ChildName.Display())
	fmt.Fprintf(out, "%s: %s\n", f.Themes.Label(), f.Themes.Display())
	fmt.Fprintf(out, "%s: %s\n", f.CustomTheme.Label(), f.CustomTheme.Display())
	fmt.Fprintf(out, "%s: %s\n", f.Topics.Label(), f.Topics.Display())
	fmt.Fprintf(out, "%s: %s\n", f.CustomTopic.Label(), f.CustomTopic.Display())
	return nil
}

func setAction(c *cli.Context, s *session) error {
	if c.NArg() < 1 {
		return fmt.Errorf("%w: set needs a field", errUsage)
	}
	field := c.Args().Get(0)
	value := strings.Join(c.Args().Slice()[1:], " ")
	ctx := c.Context
	f := s.form

	switch field {
	case prefs.FieldLanguage:
		f.Language.Open()
		return f.Language.Pick(ctx, value)
	case prefs.FieldDefaultLength:
		f.Length.Open()
		return f.Length.Pick(ctx, value)
	case prefs.FieldChildName:
		return saveText(c, f.ChildName, value)
	case prefs.FieldCustomTheme:
		return saveText(c, f.CustomTheme, value)
	case prefs.FieldCustomTopic:
		return saveText(c, f.CustomTopic, value)
	case prefs.FieldSelectedThemes:
		return replaceSelection(c, f.Themes, splitList(value))
	case prefs.FieldSelectedTopics:
		return replaceSelection(c, f.Topics, splitList(value))
	default:
		return fmt.Errorf("%w: %q", prefs.ErrUnknownField, field)
	}
}

func saveText(c *cli.Context, input *controls.TextInput, value string) error {
	input.Open()
	if err := input.SetDraft(value); err != nil {
		return err
	}
	if err := input.Save(c.Context); err != nil {
		input.Cancel()
		return err
	}
	return nil
}

func replaceSelection(c *cli.Context, sel *controls.MultiSelect, items []string) error {
	if err := sel.Open(); err != nil {
		return err
	}
	for _, current := range sel.Draft() {
		sel.Toggle(current)
	}
	for _, item := range items {
		if sel.Selected(item) {
			continue
		}
		if !sel.Toggle(item) {
			sel.Cancel()
			return fmt.Errorf("%w: %q is not available", controls.ErrUnknownOption, item)
		}
	}
	return sel.Confirm(c.Context)
}

func toggleAction(c *cli.Context, s *session) error {
	if c.NArg() < 2 {
		return fmt.Errorf("%w: toggle needs a list and an item", errUsage)
	}
	sel, err := selectionFor(s.form, c.Args().Get(0))
	if err != nil {
		return err
	}
	item := strings.Join(c.Args().Slice()[1:], " ")

	if err := sel.Open(); err != nil {
		return err
	}
	if !sel.Toggle(item) {
		sel.Cancel()
		return fmt.Errorf("%w: %q is not available", controls.ErrUnknownOption, item)
	}
	if err := sel.Confirm(c.Context); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "%s: %s\n", sel.Label(), sel.Display())
	return nil
}

func selectionFor(f *controls.Form, list string) (*controls.MultiSelect, error) {
	switch list {
	case "themes":
		return f.Themes, nil
	case "topics":
		return f.Topics, nil
	default:
		return nil, fmt.Errorf("%w: unknown list %q", errUsage, list)
	}
}

func optionsAction(c *cli.Context, s *session) error {
	var (
		items []string
		err   error
	)
	settings := s.store.Settings()
	switch c.Args().First() {
	case "languages":
		items = s.catalog.Languages()
	case "lengths":
		items = s.catalog.Lengths()
	case "themes":
		items, err = s.catalog.AvailableThemes(settings)
	case "topics":
		items, err = s.catalog.AvailableTopics(settings)
	default:
		return fmt.Errorf("%w: unknown list %q", errUsage, c.Args().First())
	}
	if err != nil {
		s.logger.Warn("custom option rule failed", "error", err)
	}
	for _, item := range items {
		fmt.Fprintln(c.App.Writer, item)
	}
	return nil
}

func resetAction(c *cli.Context, s *session) error {
	return s.store.Reset(c.Context)
}

func eraseAction(c *cli.Context, s *session) error {
	return s.store.Erase(c.Context)
}

func storyAction(c *cli.Context, s *session) error {
	kind, err := prefs.ParseStoryKind(c.Args().First())
	if err != nil {
		return err
	}
	modifications := strings.Join(c.Args().Tail(), " ")
	req, err := s.store.Settings().StoryRequest(kind, modifications)
	if err != nil {
		return err
	}
	return writeJSON(c.App.Writer, req)
}

func schemaAction(c *cli.Context, s *session) error {
	return writeJSON(c.App.Writer, prefs.Describe(s.store.Defaults()))
}

func writeJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}
