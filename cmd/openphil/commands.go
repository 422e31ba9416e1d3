package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"openphil/internal/domain"
	"openphil/internal/eventbus"
	"openphil/internal/project"
	"openphil/internal/selection"
	"openphil/internal/store"
	"openphil/internal/tokenize"
	"openphil/internal/ui"
)

var (
	idColor    = color.New(color.FgCyan)
	nameColor  = color.New(color.Bold)
	dimColor   = color.New(color.Faint)
	errorColor = color.New(color.FgRed)
)

func newImportCmd(a *app) *cobra.Command {
	var extensions []string
	var depth int

	cmd := &cobra.Command{
		Use:   "import <path>...",
		Short: "Import witness texts or project files into the database",
		Long: "Directories are scanned for witness files with the configured extensions.\n" +
			"Files with a project file extension (.json, .yaml, .toml, .msgpack) are\n" +
			"imported as whole projects, any other file is tokenized as a witness.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := a.store(ctx)
			if err != nil {
				return err
			}
			if len(extensions) == 0 {
				extensions = a.cfg.Import.Extensions
			}
			if depth <= 0 {
				depth = a.cfg.Import.MaxDepth
			}

			importer := project.NewImporter(s, tokenize.New(a.cfg.Import.IndexStride), a.bus, a.logger, a.cfg.Import.Workers)

			var witnesses []string
			var imported []domain.ProjectSummary
			var scanRoots []string
			for _, arg := range args {
				if info, err := os.Stat(arg); err == nil && !info.IsDir() {
					if _, err := project.FormatFromPath(arg); err == nil {
						summary, err := importer.ImportProjectFile(ctx, arg)
						if err != nil {
							return err
						}
						imported = append(imported, summary)
						continue
					}
				}
				scanRoots = append(scanRoots, arg)
			}

			if len(scanRoots) > 0 {
				discovery := project.NewDiscovery(a.bus, a.logger, extensions, depth)
				witnesses, err = discovery.Scan(ctx, scanRoots)
				if err != nil {
					return err
				}
			}

			summaries, err := importer.ImportFiles(ctx, witnesses)
			imported = append(imported, summaries...)
			printSummaries(cmd.OutOrStdout(), imported)
			return err
		},
	}

	cmd.Flags().StringSliceVar(&extensions, "ext", nil, "witness file extensions (overrides config)")
	cmd.Flags().IntVar(&depth, "depth", 0, "maximum directory depth (overrides config)")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.store(cmd.Context())
			if err != nil {
				return err
			}
			projects, err := s.ListProjects(cmd.Context())
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				dimColor.Fprintln(cmd.OutOrStdout(), "No projects. Import witnesses with: openphil import <path>")
				return nil
			}
			printSummaries(cmd.OutOrStdout(), projects)
			return nil
		},
	}
}

func newViewCmd(a *app) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "view <project-id | project-file>",
		Short: "Open the editing view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := a.openSession(ctx, args[0])
			if err != nil {
				return err
			}
			if watch && sess.file == "" {
				return fmt.Errorf("--watch needs a project file, not a database id")
			}

			model := ui.NewModel(ui.Options{
				Store:     sess.store,
				ProjectID: sess.project.ID,
				Bus:       a.bus,
				Config:    a.cfg,
				Logger:    a.logger,
				Source:    sess.file,
				Watching:  watch,
				SaveTo:    sess.file,
			})
			p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
			model.SetProgram(p)

			forward := func(e eventbus.DomainEvent) {
				// Reloaded files may carry no id; the session owns exactly one project
				if ev, ok := e.(eventbus.TokensReloadedEvent); ok {
					ev.ProjectID = sess.project.ID
					e = ev
				}
				p.Send(ui.EventMsg{Event: e})
			}
			unsubReload := a.bus.Subscribe(eventbus.EventTokensReloaded, forward)
			unsubError := a.bus.Subscribe(eventbus.EventError, forward)
			defer unsubReload()
			defer unsubError()

			if watch {
				w, err := project.NewWatcher(sess.file, a.bus, a.logger)
				if err != nil {
					return err
				}
				w.Start(ctx)
				defer w.Close()
			}

			a.logger.Info("starting editing view",
				zap.String("project", sess.project.ID),
				zap.String("file", sess.file),
				zap.Bool("watch", watch))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("error running program: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload the project file when it changes on disk")
	return cmd
}

func newRangeCmd(a *app) *cobra.Command {
	var showIDs bool

	cmd := &cobra.Command{
		Use:   "range <project> <start-id> <end-id>",
		Short: "Print the tokens between two token ids, inclusive",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.openSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			seq, err := selection.NewSequence(sess.project.Tokens)
			if err != nil {
				return err
			}
			tokens, err := seq.Range(args[1], args[2])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if showIDs {
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				for _, t := range tokens {
					fmt.Fprintf(tw, "%d\t%s\t%s\n", t.Index, idColor.Sprint(t.ID), t.Text)
				}
				return tw.Flush()
			}
			fmt.Fprintln(out, ui.JoinTokens(tokens))
			return nil
		},
	}

	cmd.Flags().BoolVar(&showIDs, "ids", false, "print one token per line with its index and id")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <project-id> <file>",
		Short: "Write a project to a file; the extension picks the format",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.store(cmd.Context())
			if err != nil {
				return err
			}
			p, err := s.GetProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := project.SaveFile(args[1], p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", nameColor.Sprint(p.Name), args[1])
			return nil
		},
	}
}

func newLoadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "load <file>",
		Short: "Store a project file in the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.store(cmd.Context())
			if err != nil {
				return err
			}
			importer := project.NewImporter(s, nil, a.bus, a.logger, 1)
			summary, err := importer.ImportProjectFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printSummaries(cmd.OutOrStdout(), []domain.ProjectSummary{summary})
			return nil
		},
	}
}

func newCommentsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "comments <project>",
		Short: "List comments with the text they cover",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.openSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printComments(cmd.OutOrStdout(), sess.project)
			return nil
		},
	}
}

func newSplitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "split <project> <token-id> <offset>",
		Short: "Split a token in two at a character offset",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			offset, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid offset %q: %w", args[2], err)
			}
			sess, err := a.openSession(ctx, args[0])
			if err != nil {
				return err
			}
			left, right, err := sess.store.SplitToken(ctx, sess.project.ID, args[1], offset)
			if err != nil {
				return err
			}
			a.bus.Publish(eventbus.TokenSplitEvent{ProjectID: sess.project.ID, Left: left, Right: right})

			if sess.file != "" {
				p, err := sess.store.GetProject(ctx, sess.project.ID)
				if err != nil {
					return err
				}
				if err := project.SaveFile(sess.file, p); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s %s\n",
				idColor.Sprint(args[1]), left.Text, right.Text)
			return nil
		},
	}
}

// session is one project opened from the database or from a project file
type session struct {
	store   store.Store
	project *domain.Project
	file    string
}

// openSession resolves ref as a project file when it names one, and as a
// database project id otherwise. File projects live in a memory store.
func (a *app) openSession(ctx context.Context, ref string) (*session, error) {
	if info, err := os.Stat(ref); err == nil && !info.IsDir() {
		p, err := project.LoadFile(ref)
		if err != nil {
			return nil, err
		}
		mem := store.NewMemoryStore(store.WithStride(a.cfg.Import.IndexStride))
		if err := mem.CreateProject(ctx, p); err != nil {
			return nil, err
		}
		stored, err := mem.GetProject(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		return &session{store: mem, project: stored, file: ref}, nil
	}

	s, err := a.store(ctx)
	if err != nil {
		return nil, err
	}
	p, err := s.GetProject(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("no project file or project id %q: %w", ref, err)
	}
	return &session{store: s, project: p}, nil
}

func printSummaries(w io.Writer, projects []domain.ProjectSummary) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, p := range projects {
		fmt.Fprintf(tw, "%s\t%s\t%s\n",
			idColor.Sprint(p.ID),
			nameColor.Sprint(p.Name),
			dimColor.Sprintf("%d tokens, %d witnesses, %s", p.TokenCount, p.Witnesses, p.CreatedAt.Format("2006-01-02")))
	}
	_ = tw.Flush()
}

func printComments(w io.Writer, p *domain.Project) {
	if len(p.Comments) == 0 {
		dimColor.Fprintln(w, "No comments.")
		return
	}
	for _, c := range p.Comments {
		var text string
		tokens, err := selection.RangeByID(p.Tokens, domain.Token.TokenID, c.StartTokenID, c.EndTokenID)
		if err != nil {
			text = errorColor.Sprintf("(range lost: %v)", err)
		} else {
			text = ui.JoinTokens(tokens)
		}
		fmt.Fprintf(w, "%s %s\n  %s\n", idColor.Sprint(c.ID), nameColor.Sprint(text), c.Body)
	}
}
