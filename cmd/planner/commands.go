package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"fitclub/planner/internal/catalog"
	"fitclub/planner/internal/domain"
	"fitclub/planner/internal/editor"
	"fitclub/planner/internal/gateway"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func newGateway(c *cli.Context, token string) (*gateway.Client, error) {
	s := settingsFrom(c)
	return gateway.New(s.BaseURL, token, gateway.WithTimeout(s.Timeout))
}

func authorizedGateway(c *cli.Context) (*gateway.Client, error) {
	token, err := readToken(settingsFrom(c).TokenFile)
	if err != nil {
		return nil, err
	}
	return newGateway(c, token)
}

// withSession loads clientID, runs fn, then prints the plans. fn returns the
// plans it changed so only those are saved.
func withSession(c *cli.Context, clientID string, fn func(*editor.Session, *gateway.Client) (workout, nutrition bool, err error)) error {
	gw, err := authorizedGateway(c)
	if err != nil {
		return err
	}
	session := editor.NewSession(gw)
	defer session.Close()

	res, err := session.Load(c.Context, clientID)
	if err != nil {
		return errors.New(gateway.UserMessage(err))
	}
	if err := res.Err(); err != nil {
		log.Warn().Err(err).Str("clientId", clientID).Msg("partial load")
		if res.WorkoutErr != nil && res.NutritionErr != nil {
			return errors.New(gateway.UserMessage(res.WorkoutErr))
		}
	}

	saveWorkout, saveNutrition, err := fn(session, gw)
	if err != nil {
		return err
	}
	if saveWorkout {
		if err := session.SaveWorkout(c.Context); err != nil {
			return fmt.Errorf("workout not saved: %s", saveMessage(err))
		}
		fmt.Fprintln(c.App.Writer, "workout plan saved")
	}
	if saveNutrition {
		if err := session.SaveNutrition(c.Context); err != nil {
			return fmt.Errorf("nutrition not saved: %s", saveMessage(err))
		}
		fmt.Fprintln(c.App.Writer, "nutrition plan saved")
	}
	printSession(c.App.Writer, session)
	return nil
}

func saveMessage(err error) string {
	if errors.Is(err, editor.ErrLoadFailed) {
		return err.Error()
	}
	return gateway.UserMessage(err)
}

func args(c *cli.Context, names ...string) ([]string, error) {
	if c.NArg() < len(names) {
		return nil, fmt.Errorf("usage: %s %s", c.Command.HelpName, strings.Join(names, " "))
	}
	return c.Args().Slice(), nil
}

func dayArg(s string) (domain.DayKey, error) {
	day, ok := domain.ParseDayKey(s)
	if !ok {
		return "", fmt.Errorf("%q is not a weekday name", s)
	}
	return day, nil
}

// position parses a 1-based row number.
func position(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%q is not a row number", s)
	}
	return n - 1, nil
}

// findByName picks the catalog item whose name matches exactly, ignoring case.
func findByName[T catalog.Item](items []T, name string) (T, error) {
	var zero T
	for it := range catalog.Filter(items, name, catalog.All) {
		if strings.EqualFold(it.DisplayName(), name) {
			return it, nil
		}
	}
	return zero, fmt.Errorf("%q is not in the catalog", name)
}

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Exchange trainer credentials for a token",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"PLANNER_PASSWORD"}},
		},
		Action: func(c *cli.Context) error {
			gw, err := newGateway(c, "")
			if err != nil {
				return err
			}
			token, err := gw.Login(c.Context, c.String("email"), c.String("password"))
			if err != nil {
				return errors.New(gateway.UserMessage(err))
			}
			if err := writeToken(settingsFrom(c).TokenFile, token); err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, "logged in")
			return nil
		},
	}
}

func clientsCommand() *cli.Command {
	return &cli.Command{
		Name:  "clients",
		Usage: "List the trainer's clients",
		Action: func(c *cli.Context) error {
			gw, err := authorizedGateway(c)
			if err != nil {
				return err
			}
			clients, err := gw.ListClients(c.Context)
			if err != nil {
				return errors.New(gateway.UserMessage(err))
			}
			for _, cl := range clients {
				fmt.Fprintf(c.App.Writer, "%s\t%s\t%s\n", cl.ID, cl.Name, cl.Email)
			}
			return nil
		},
	}
}

func catalogCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{Name: "query", Aliases: []string{"q"}, Usage: "name contains"},
		&cli.StringFlag{Name: "category", Aliases: []string{"c"}, Value: catalog.All},
		&cli.BoolFlag{Name: "categories", Usage: "list categories instead of items"},
	}
	return &cli.Command{
		Name:  "catalog",
		Usage: "Browse the exercise and food catalogs",
		Subcommands: []*cli.Command{
			{
				Name:  "exercises",
				Flags: flags,
				Action: func(c *cli.Context) error {
					gw, err := authorizedGateway(c)
					if err != nil {
						return err
					}
					items, err := gw.ListExercises(c.Context)
					if err != nil {
						return errors.New(gateway.UserMessage(err))
					}
					return printCatalog(c, items, func(e domain.CatalogExercise) string {
						entry := catalog.NewEntry(e)
						return fmt.Sprintf("%s\t%s\t%sx%s", e.Name, e.Category, entry.Sets, entry.Reps)
					})
				},
			},
			{
				Name:  "foods",
				Flags: flags,
				Action: func(c *cli.Context) error {
					gw, err := authorizedGateway(c)
					if err != nil {
						return err
					}
					items, err := gw.ListFoods(c.Context)
					if err != nil {
						return errors.New(gateway.UserMessage(err))
					}
					return printCatalog(c, items, func(f domain.FoodEntry) string {
						return fmt.Sprintf("%s\t%s\tP%g C%g F%g %gkcal", f.Name, f.Category, f.Protein, f.Carbs, f.Fats, f.Calories)
					})
				},
			},
		},
	}
}

func printCatalog[T catalog.Item](c *cli.Context, items []T, line func(T) string) error {
	if c.Bool("categories") {
		for _, cat := range catalog.Categories(items) {
			fmt.Fprintln(c.App.Writer, cat)
		}
		return nil
	}
	for it := range catalog.Filter(items, c.String("query"), c.String("category")) {
		fmt.Fprintln(c.App.Writer, line(it))
	}
	return nil
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Print a client's plans",
		ArgsUsage: "<clientId>",
		Action: func(c *cli.Context) error {
			a, err := args(c, "<clientId>")
			if err != nil {
				return err
			}
			return withSession(c, a[0], func(*editor.Session, *gateway.Client) (bool, bool, error) {
				return false, false, nil
			})
		},
	}
}

func workoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "workout",
		Usage: "Edit a client's weekly schedule",
		Subcommands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Append a catalog exercise to a day",
				ArgsUsage: "<clientId> <day> <exercise name>",
				Action: func(c *cli.Context) error {
					a, err := args(c, "<clientId>", "<day>", "<exercise name>")
					if err != nil {
						return err
					}
					day, err := dayArg(a[1])
					if err != nil {
						return err
					}
					name := strings.Join(a[2:], " ")
					return withSession(c, a[0], func(s *editor.Session, gw *gateway.Client) (bool, bool, error) {
						exercises, err := gw.ListExercises(c.Context)
						if err != nil {
							return false, false, errors.New(gateway.UserMessage(err))
						}
						ex, err := findByName(exercises, name)
						if err != nil {
							return false, false, err
						}
						_, err = s.Schedule.AddExercise(day, ex)
						return true, false, err
					})
				},
			},
			{
				Name:      "remove",
				Usage:     "Remove the n-th exercise of a day",
				ArgsUsage: "<clientId> <day> <n>",
				Action: func(c *cli.Context) error {
					a, err := args(c, "<clientId>", "<day>", "<n>")
					if err != nil {
						return err
					}
					day, err := dayArg(a[1])
					if err != nil {
						return err
					}
					idx, err := position(a[2])
					if err != nil {
						return err
					}
					return withSession(c, a[0], func(s *editor.Session, _ *gateway.Client) (bool, bool, error) {
						if !s.Schedule.RemoveExercise(day, idx) {
							return false, false, fmt.Errorf("%s has no row %s", day, a[2])
						}
						return true, false, nil
					})
				},
			},
			{
				Name:      "set",
				Usage:     "Change sets, reps or weight of the n-th exercise of a day",
				ArgsUsage: "<clientId> <day> <n> <sets|reps|weight> <value>",
				Action: func(c *cli.Context) error {
					a, err := args(c, "<clientId>", "<day>", "<n>", "<field>", "<value>")
					if err != nil {
						return err
					}
					day, err := dayArg(a[1])
					if err != nil {
						return err
					}
					idx, err := position(a[2])
					if err != nil {
						return err
					}
					field, err := editor.ParseField(a[3])
					if err != nil {
						return err
					}
					value := strings.Join(a[4:], " ")
					return withSession(c, a[0], func(s *editor.Session, _ *gateway.Client) (bool, bool, error) {
						ok, err := s.Schedule.UpdateField(day, idx, field, value)
						if err != nil {
							return false, false, err
						}
						if !ok {
							return false, false, fmt.Errorf("%s has no row %s", day, a[2])
						}
						return true, false, nil
					})
				},
			},
			{
				Name:      "clear",
				Usage:     "Make a day a rest day",
				ArgsUsage: "<clientId> <day>",
				Action: func(c *cli.Context) error {
					a, err := args(c, "<clientId>", "<day>")
					if err != nil {
						return err
					}
					day, err := dayArg(a[1])
					if err != nil {
						return err
					}
					return withSession(c, a[0], func(s *editor.Session, _ *gateway.Client) (bool, bool, error) {
						return true, false, s.Schedule.ClearDay(day)
					})
				},
			},
			{
				Name:      "notes",
				Usage:     "Replace the notes sent with the week",
				ArgsUsage: "<clientId> <text>",
				Action: func(c *cli.Context) error {
					a, err := args(c, "<clientId>", "<text>")
					if err != nil {
						return err
					}
					return withSession(c, a[0], func(s *editor.Session, _ *gateway.Client) (bool, bool, error) {
						s.SetNotes(strings.Join(a[1:], " "))
						return true, false, nil
					})
				},
			},
		},
	}
}

func nutritionCommand() *cli.Command {
	return &cli.Command{
		Name:  "nutrition",
		Usage: "Edit a client's nutrition plan",
		Subcommands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Add a catalog food as a line item",
				ArgsUsage: "<clientId> <food name>",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "count", Value: 1, Usage: "number of line items to add"},
				},
				Action: func(c *cli.Context) error {
					a, err := args(c, "<clientId>", "<food name>")
					if err != nil {
						return err
					}
					name := strings.Join(a[1:], " ")
					return withSession(c, a[0], func(s *editor.Session, gw *gateway.Client) (bool, bool, error) {
						foods, err := gw.ListFoods(c.Context)
						if err != nil {
							return false, false, errors.New(gateway.UserMessage(err))
						}
						food, err := findByName(foods, name)
						if err != nil {
							return false, false, err
						}
						for i := 0; i < c.Int("count"); i++ {
							s.Nutrition.AddFood(food)
						}
						return false, true, nil
					})
				},
			},
			{
				Name:      "remove",
				Usage:     "Remove the n-th line item",
				ArgsUsage: "<clientId> <n>",
				Action: func(c *cli.Context) error {
					a, err := args(c, "<clientId>", "<n>")
					if err != nil {
						return err
					}
					idx, err := position(a[1])
					if err != nil {
						return err
					}
					return withSession(c, a[0], func(s *editor.Session, _ *gateway.Client) (bool, bool, error) {
						if !s.Nutrition.RemoveFood(idx) {
							return false, false, fmt.Errorf("no line item %s", a[1])
						}
						return false, true, nil
					})
				},
			},
			{
				Name:      "goals",
				Usage:     "Set the protein and calorie goals",
				ArgsUsage: "<clientId>",
				Flags: []cli.Flag{
					&cli.Float64Flag{Name: "protein", Usage: "grams per day"},
					&cli.Float64Flag{Name: "calories", Usage: "kcal per day"},
				},
				Action: func(c *cli.Context) error {
					a, err := args(c, "<clientId>")
					if err != nil {
						return err
					}
					return withSession(c, a[0], func(s *editor.Session, _ *gateway.Client) (bool, bool, error) {
						plan := s.Nutrition.Plan()
						protein, calories := plan.ProteinGoal, plan.CalorieGoal
						if c.IsSet("protein") {
							protein = c.Float64("protein")
						}
						if c.IsSet("calories") {
							calories = c.Float64("calories")
						}
						s.Nutrition.SetGoals(protein, calories)
						return false, true, nil
					})
				},
			},
			{
				Name:      "day",
				Usage:     "Set the day the plan applies to",
				ArgsUsage: "<clientId> <day>",
				Action: func(c *cli.Context) error {
					a, err := args(c, "<clientId>", "<day>")
					if err != nil {
						return err
					}
					day, err := dayArg(a[1])
					if err != nil {
						return err
					}
					return withSession(c, a[0], func(s *editor.Session, _ *gateway.Client) (bool, bool, error) {
						return false, true, s.Nutrition.SetDay(day)
					})
				},
			},
		},
	}
}
