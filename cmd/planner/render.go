package main

import (
	"fmt"
	"io"

	"fitclub/planner/internal/domain"
	"fitclub/planner/internal/editor"
)

func printSession(w io.Writer, s *editor.Session) {
	if p := s.Profile(); p != nil {
		fmt.Fprintf(w, "%s", p.FullName)
		if p.Goal != "" {
			fmt.Fprintf(w, " (%s)", p.Goal)
		}
		fmt.Fprintln(w)
		if p.FitnessGoals != "" {
			fmt.Fprintf(w, "goals: %s\n", p.FitnessGoals)
		}
	}

	st := s.Status()
	fmt.Fprintf(w, "\nworkout [%s]\n", st.Workout)
	if notes := s.Notes(); notes != "" {
		fmt.Fprintf(w, "notes: %s\n", notes)
	}
	for _, day := range domain.Week {
		entries := s.Schedule.Day(day)
		if len(entries) == 0 {
			fmt.Fprintf(w, "  %-9s rest\n", day)
			continue
		}
		fmt.Fprintf(w, "  %s\n", day)
		for i, e := range entries {
			fmt.Fprintf(w, "    %d. %s %sx%s", i+1, e.Name, e.Sets, e.Reps)
			if e.Weight != "" {
				fmt.Fprintf(w, " @ %s", e.Weight)
			}
			fmt.Fprintln(w)
		}
	}

	plan := s.Nutrition.Plan()
	day := string(plan.Day)
	if day == "" {
		day = "no day"
	}
	fmt.Fprintf(w, "\nnutrition [%s] %s\n", st.Nutrition, day)
	for i, f := range plan.Foods {
		fmt.Fprintf(w, "  %d. %s  P%g C%g F%g %gkcal\n", i+1, f.Name, f.Protein, f.Carbs, f.Fats, f.Calories)
	}
	t := s.Nutrition.Totals()
	fmt.Fprintf(w, "  total  P%g C%g F%g %gkcal\n", t.Protein, t.Carbs, t.Fats, t.Calories)
	printProgress(w, "protein", t.Protein, plan.ProteinGoal, s.Nutrition.ProteinProgress())
	printProgress(w, "calories", t.Calories, plan.CalorieGoal, s.Nutrition.CalorieProgress())
}

func printProgress(w io.Writer, label string, current, goal float64, p editor.Progress) {
	if goal <= 0 {
		fmt.Fprintf(w, "  %s %g (no goal)\n", label, current)
		return
	}
	fmt.Fprintf(w, "  %s %g/%g %d%% (bar %d%%)\n", label, current, goal, p.Raw, p.Capped)
}
