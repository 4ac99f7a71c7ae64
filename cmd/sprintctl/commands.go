package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"sprintos.backend/internal/domain/entities"
	"sprintos.backend/internal/infrastructure/models"
	"sprintos.backend/internal/usecases"
	"sprintos.backend/internal/workspace"
	"sprintos.backend/pkg/crypto"
)

// withRuntime loads configuration, opens the runtime and runs fn against it
func withRuntime(cmd *cobra.Command, deps cliDeps, fn func(ctx context.Context, rt *cliRuntime) error) error {
	if err := deps.loadEnv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	sqlitePath, _ := cmd.Flags().GetString("sqlite")

	rt, closer, err := deps.prepare(deps.loadCfg(), sqlitePath)
	if err != nil {
		return err
	}
	if closer == nil {
		closer = nopCloser{}
	}
	defer closer.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return fn(ctx, rt)
}

func uuidFlag(cmd *cobra.Command, name string) (uuid.UUID, error) {
	raw, _ := cmd.Flags().GetString(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid --%s: %w", name, err)
	}
	return id, nil
}

// uuidFlags parses several uuid flags in order
func uuidFlags(cmd *cobra.Command, names ...string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(names))
	for _, name := range names {
		id, err := uuidFlag(cmd, name)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// requireFlags marks flags that cobra must see before RunE runs
func requireFlags(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(err)
		}
	}
}

func migrateCmd(deps cliDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, deps, func(ctx context.Context, rt *cliRuntime) error {
				all := models.All()
				if err := rt.db.WithContext(ctx).AutoMigrate(all...); err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
				_, _ = fmt.Fprintf(deps.out, "Migrated %d models\n", len(all))
				return nil
			})
		},
	}
}

func parseActionsCmd(deps cliDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "parse-actions [file]",
		Short: "Print the action items found in a summary text",
		Long:  "Reads a summary from the given file, or from stdin when no file is given, and prints the parsed action items.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var src io.Reader = deps.in
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				src = f
			}
			text, err := io.ReadAll(src)
			if err != nil {
				return fmt.Errorf("read summary: %w", err)
			}

			items := usecases.ParseActionItems(string(text))
			if len(items) == 0 {
				_, _ = fmt.Fprintln(deps.out, "No action items found")
				return nil
			}
			printItems(deps.out, items)
			return nil
		},
	}
}

func printItems(w io.Writer, items []string) {
	for i, item := range items {
		_, _ = fmt.Fprintf(w, "%d. %s\n", i+1, item)
	}
}

func hashPasswordCmd(deps cliDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print a bcrypt hash for a password",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password := ""
			if len(args) == 1 {
				password = args[0]
			} else {
				line, err := bufio.NewReader(deps.in).ReadString('\n')
				if err != nil && err != io.EOF {
					return err
				}
				password = strings.TrimRight(line, "\r\n")
			}
			if password == "" {
				return fmt.Errorf("password is required")
			}

			hash, err := crypto.HashPassword(password)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(deps.out, hash)
			return nil
		},
	}
}

func summarizeCmd(deps cliDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Summarize a team's notes and store the result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := uuidFlags(cmd, "team", "user")
			if err != nil {
				return err
			}
			return withRuntime(cmd, deps, func(ctx context.Context, rt *cliRuntime) error {
				scope, err := rt.teams.ResolveScope(ctx, ids[1], ids[0])
				if err != nil {
					return err
				}
				res, err := rt.summaries.GenerateSummary(ctx, scope)
				if err != nil {
					return err
				}

				source := "ai"
				if !res.Success {
					source = "fallback"
				}
				_, _ = fmt.Fprintf(deps.out, "summary_id=%s source=%s\n\n", res.Summary.ID, source)
				_, _ = fmt.Fprintln(deps.out, res.Summary.SummaryText)
				if len(res.Summary.ActionItems) > 0 {
					_, _ = fmt.Fprintln(deps.out, "\nAction items:")
					printItems(deps.out, res.Summary.ActionItems)
				}
				return nil
			})
		},
	}
	cmd.Flags().String("team", "", "team UUID")
	cmd.Flags().String("user", "", "acting user UUID")
	requireFlags(cmd, "team", "user")
	return cmd
}

func regenerateCodeCmd(deps cliDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "regenerate-code",
		Short: "Replace a team's invite code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := uuidFlags(cmd, "team", "user")
			if err != nil {
				return err
			}
			return withRuntime(cmd, deps, func(ctx context.Context, rt *cliRuntime) error {
				code, err := rt.invites.RegenerateInviteCode(ctx, ids[1], ids[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(deps.out, "INVITE_CODE=%s\n", code)
				return nil
			})
		},
	}
	cmd.Flags().String("team", "", "team UUID")
	cmd.Flags().String("user", "", "organizer UUID")
	requireFlags(cmd, "team", "user")
	return cmd
}

func teamsCmd(deps cliDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "teams",
		Short: "List a user's teams, marking the one that opens by default",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := uuidFlag(cmd, "user")
			if err != nil {
				return err
			}
			return withRuntime(cmd, deps, func(ctx context.Context, rt *cliRuntime) error {
				session := workspace.NewSession(userID, rt.teams)
				if err := session.Refresh(ctx); err != nil {
					return err
				}
				teams := session.Teams()
				if len(teams) == 0 {
					_, _ = fmt.Fprintln(deps.out, "No teams")
					return nil
				}
				active, _ := session.Active()
				for _, t := range teams {
					marker := " "
					if active != nil && active.ID == t.ID {
						marker = "*"
					}
					_, _ = fmt.Fprintf(deps.out, "%s %s  %s (%s)  %s  %s\n", marker, t.ID, t.Name, t.ProjectName, t.Role, t.InviteCode)
				}
				return nil
			})
		},
	}
	cmd.Flags().String("user", "", "user UUID")
	requireFlags(cmd, "user")
	return cmd
}

// openBoard resolves the team (the session's first team when --team is empty) and loads its tasks
func openBoard(ctx context.Context, cmd *cobra.Command, rt *cliRuntime, userID uuid.UUID, filter entities.TaskFilter) (*workspace.TaskBoard, error) {
	session := workspace.NewSession(userID, rt.teams)
	if err := session.Refresh(ctx); err != nil {
		return nil, err
	}
	if raw, _ := cmd.Flags().GetString("team"); raw != "" {
		teamID, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid --team: %w", err)
		}
		if err := session.SwitchTeam(teamID); err != nil {
			return nil, err
		}
	}
	scope, err := session.Scope()
	if err != nil {
		return nil, err
	}

	board := workspace.NewTaskBoard(scope, rt.tasks, filter)
	if err := board.Load(ctx); err != nil {
		return nil, err
	}
	return board, nil
}

func printTask(w io.Writer, t entities.Task) {
	check := " "
	if t.Status == entities.TaskStatusCompleted {
		check = "x"
	}
	_, _ = fmt.Fprintf(w, "[%s] %s  %s  (%s)\n", check, t.ID, t.Title, t.Status)
}

func tasksCmd(deps cliDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List a team's tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := uuidFlag(cmd, "user")
			if err != nil {
				return err
			}
			status, _ := cmd.Flags().GetString("status")
			filter := entities.TaskFilter{Status: entities.TaskStatus(status)}
			if status != "" && !filter.Status.IsValid() {
				return fmt.Errorf("invalid --status %q", status)
			}

			return withRuntime(cmd, deps, func(ctx context.Context, rt *cliRuntime) error {
				board, err := openBoard(ctx, cmd, rt, userID, filter)
				if err != nil {
					return err
				}
				tasks := board.Tasks()
				if len(tasks) == 0 {
					_, _ = fmt.Fprintln(deps.out, "No tasks")
					return nil
				}
				for _, t := range tasks {
					printTask(deps.out, t)
				}
				return nil
			})
		},
	}
	cmd.Flags().String("user", "", "user UUID")
	cmd.Flags().String("team", "", "team UUID (defaults to the user's first team)")
	cmd.Flags().String("status", "", "only list tasks with this status")
	requireFlags(cmd, "user")
	return cmd
}

func toggleCmd(deps cliDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "toggle",
		Short: "Flip a task between completed and pending",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := uuidFlags(cmd, "user", "task")
			if err != nil {
				return err
			}
			return withRuntime(cmd, deps, func(ctx context.Context, rt *cliRuntime) error {
				board, err := openBoard(ctx, cmd, rt, ids[0], entities.TaskFilter{})
				if err != nil {
					return err
				}
				if err := board.ToggleTask(ctx, ids[1]); err != nil {
					return err
				}
				for _, t := range board.Tasks() {
					if t.ID == ids[1] {
						printTask(deps.out, t)
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().String("user", "", "user UUID")
	cmd.Flags().String("team", "", "team UUID (defaults to the user's first team)")
	cmd.Flags().String("task", "", "task UUID")
	requireFlags(cmd, "user", "task")
	return cmd
}
