// Package cli implements the contactmail command line.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/laguntza/contactmail"
	"github.com/laguntza/contactmail/internal/config"
	"github.com/laguntza/contactmail/pkg/logger"
	"github.com/laguntza/contactmail/pkg/templates"
)

type state struct {
	out     io.Writer
	envFile string
	cfg     *config.Config
}

// NewRootCommand builds the command tree. Output goes to out.
// Running without a subcommand serves HTTP.
func NewRootCommand(out io.Writer) *cobra.Command {
	st := &state{out: out}

	root := &cobra.Command{
		Use:           "contactmail",
		Short:         "Contact-form email service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var files []string
			if st.envFile != "" {
				files = append(files, st.envFile)
			}
			cfg, err := config.Load(files...)
			if err != nil {
				return err
			}
			st.cfg = cfg
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return st.serve(cmd.Context())
		},
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&st.envFile, "env-file", "", "dotenv file to load (default .env when present)")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return st.serve(cmd.Context())
			},
		},
		st.templatesCommand(),
		st.renderCommand(),
		st.checkCommand(),
	)

	return root
}

func (st *state) serve(ctx context.Context) error {
	app, err := contactmail.New(ctx, st.cfg)
	if err != nil {
		return err
	}
	return app.Run(ctx)
}

// quietApp builds an App whose logs go to stderr at warn level so command
// output stays clean.
func (st *state) quietApp(ctx context.Context) (*contactmail.App, error) {
	cfg := *st.cfg
	cfg.RateLimit.Enabled = false
	cfg.MetricsEnabled = false
	return contactmail.New(ctx, &cfg,
		contactmail.WithLogger(logger.NewWithWriter(os.Stderr, slog.LevelWarn)),
	)
}

func (st *state) templatesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List available templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := st.quietApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close(cmd.Context())

			for _, name := range app.Service().AvailableTemplates() {
				fmt.Fprintln(st.out, name)
			}
			return nil
		},
	}
}

func (st *state) renderCommand() *cobra.Command {
	var (
		lang   string
		data   []string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "render <template>",
		Short: "Render a template with sample data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			contact, err := parseData(data)
			if err != nil {
				return err
			}

			app, err := st.quietApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close(cmd.Context())

			rendered, err := app.Service().RenderTemplate(args[0], lang, contact)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(st.out)
				enc.SetIndent("", "  ")
				return enc.Encode(rendered)
			}
			fmt.Fprintf(st.out, "Subject: %s\n\n--- text ---\n%s\n--- html ---\n%s\n",
				rendered.Subject, rendered.Text, rendered.HTML)
			return nil
		},
	}

	cmd.Flags().StringVar(&lang, "lang", "", fmt.Sprintf("template language (%s)", joinLangs()))
	cmd.Flags().StringArrayVar(&data, "data", nil, "substitution value as key=value (repeatable)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

func (st *state) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the email provider configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := st.quietApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close(cmd.Context())

			if _, err := app.Service().TestConnection(cmd.Context()); err != nil {
				return fmt.Errorf("%s provider: %w", st.cfg.Provider, err)
			}
			fmt.Fprintf(st.out, "%s provider: ok\n", st.cfg.Provider)
			return nil
		},
	}
}

// parseData turns key=value pairs into contact data. Known keys fill the
// matching fields; anything else is kept as an extra token.
func parseData(pairs []string) (templates.ContactData, error) {
	raw := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return templates.ContactData{}, fmt.Errorf("invalid --data %q, want key=value", p)
		}
		raw[strings.TrimSpace(k)] = v
	}

	b, err := json.Marshal(raw)
	if err != nil {
		return templates.ContactData{}, err
	}
	var data templates.ContactData
	if err := json.Unmarshal(b, &data); err != nil {
		return templates.ContactData{}, err
	}
	return data, nil
}

func joinLangs() string {
	langs := templates.Langs()
	s := make([]string, len(langs))
	for i, l := range langs {
		s[i] = string(l)
	}
	return strings.Join(s, "|")
}
