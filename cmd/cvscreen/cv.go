package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"alfredoptarigan/cv-screener/internal/models"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the requirement summary and totals",
	RunE:  runDashboard,
}

var requirementsCmd = &cobra.Command{
	Use:     "requirements",
	Aliases: []string{"req"},
	Short:   "Browse and manage job requirements",
}

var requirementsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List requirement ids",
	RunE:  runRequirementsList,
}

var requirementsShowCmd = &cobra.Command{
	Use:   "show <requirement-id>",
	Short: "Show one requirement",
	Args:  cobra.ExactArgs(1),
	RunE:  runRequirementsShow,
}

var requirementsDeleteCmd = &cobra.Command{
	Use:   "delete <requirement-id>",
	Short: "Delete a requirement and its candidates",
	Args:  cobra.ExactArgs(1),
	RunE:  runRequirementsDelete,
}

var requirementsStatsCmd = &cobra.Command{
	Use:   "stats <requirement-id>",
	Short: "Show score statistics for a requirement",
	Args:  cobra.ExactArgs(1),
	RunE:  runRequirementsStats,
}

var detailsCmd = &cobra.Command{
	Use:   "details <requirement-id>",
	Short: "List scored candidates of a requirement",
	Args:  cobra.ExactArgs(1),
	RunE:  runDetails,
}

var (
	detailsPage     int
	detailsPageSize int
)

func init() {
	detailsCmd.Flags().IntVar(&detailsPage, "page", 1, "Page number")
	detailsCmd.Flags().IntVar(&detailsPageSize, "page-size", 10, "Candidates per page")

	requirementsCmd.AddCommand(requirementsListCmd, requirementsShowCmd, requirementsDeleteCmd, requirementsStatsCmd)
	rootCmd.AddCommand(dashboardCmd, requirementsCmd, detailsCmd)
}

// dashboardTotals are the headline numbers over every requirement.
type dashboardTotals struct {
	Requirements int
	Candidates   int
	Active       int
	Processing   int
	AverageScore float64
}

func summarize(rows []models.RequirementSummary) dashboardTotals {
	var t dashboardTotals
	var weighted float64
	for _, r := range rows {
		t.Requirements++
		t.Candidates += r.TotalCandidates
		weighted += r.AverageScore * float64(r.TotalCandidates)
		switch r.Status {
		case models.StatusActive:
			t.Active++
		case models.StatusProcessing:
			t.Processing++
		}
	}
	if t.Candidates > 0 {
		t.AverageScore = weighted / float64(t.Candidates)
	}
	return t
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	a, err := newAuthedApp()
	if err != nil {
		return err
	}
	defer a.Close()

	result := a.client.CV.GetRequirementSummary(cmd.Context())
	if err := resultError(result); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	t := summarize(result.Data)
	fmt.Fprintf(out, "Total resumes: %d  Requirements: %d  Active: %d  Processing: %d  Average score: %.1f\n\n",
		t.Candidates, t.Requirements, t.Active, t.Processing, t.AverageScore)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "REQUIREMENT\tTITLE\tCANDIDATES\tAVG SCORE\tTOP CANDIDATE\tSTATUS")
	for _, r := range result.Data {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.1f\t%s\t%s\n",
			r.RequirementID, r.JobTitle, r.TotalCandidates, r.AverageScore, r.TopCandidate, r.Status)
	}
	return w.Flush()
}

func runRequirementsList(cmd *cobra.Command, _ []string) error {
	a, err := newAuthedApp()
	if err != nil {
		return err
	}
	defer a.Close()

	result := a.client.CV.GetRequirements(cmd.Context())
	if err := resultError(result); err != nil {
		return err
	}
	for _, id := range result.Data {
		fmt.Fprintln(cmd.OutOrStdout(), id)
	}
	return nil
}

func runRequirementsShow(cmd *cobra.Command, args []string) error {
	a, err := newAuthedApp()
	if err != nil {
		return err
	}
	defer a.Close()

	result := a.client.CV.GetRequirementDetails(cmd.Context(), args[0])
	if err := resultError(result); err != nil {
		return err
	}
	return printFields(cmd.OutOrStdout(), result.Data)
}

func runRequirementsDelete(cmd *cobra.Command, args []string) error {
	a, err := newAuthedApp()
	if err != nil {
		return err
	}
	defer a.Close()

	result := a.client.CV.DeleteRequirement(cmd.Context(), args[0])
	if err := resultError(result); err != nil {
		return err
	}
	msg, _ := result.Data["message"].(string)
	if msg == "" {
		msg = fmt.Sprintf("Requirement %s deleted", args[0])
	}
	fmt.Fprintln(cmd.OutOrStdout(), msg)
	return nil
}

func runRequirementsStats(cmd *cobra.Command, args []string) error {
	a, err := newAuthedApp()
	if err != nil {
		return err
	}
	defer a.Close()

	result := a.client.CV.GetCVStatistics(cmd.Context(), args[0])
	if err := resultError(result); err != nil {
		return err
	}
	return printFields(cmd.OutOrStdout(), result.Data)
}

func runDetails(cmd *cobra.Command, args []string) error {
	a, err := newAuthedApp()
	if err != nil {
		return err
	}
	defer a.Close()

	result := a.client.CV.GetCVDetails(cmd.Context(), args[0], detailsPage, detailsPageSize)
	if err := resultError(result); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CANDIDATE\tEMAIL\tEXPERIENCE\tSCORE\tSUMMARY")
	for _, d := range result.Data {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1f\t%s\n",
			d.CandidateName, d.EmailID, d.YearsOfExperience, d.ResumeScore, d.EvaluationSummary)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if p := result.Pagination; p != nil {
		fmt.Fprintf(out, "\nPage %d of %d (%d candidates)\n", detailsPage, p.TotalPages, p.Count)
	}
	return nil
}

// printFields writes a decoded JSON object as sorted "key: value" lines.
// Nested values are printed as compact JSON.
func printFields(out io.Writer, data map[string]any) error {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	w := tabwriter.NewWriter(out, 0, 0, 1, ' ', 0)
	for _, k := range keys {
		var v string
		switch val := data[k].(type) {
		case string:
			v = val
		case nil:
			v = "-"
		default:
			b, err := json.Marshal(val)
			if err != nil {
				return err
			}
			v = string(b)
		}
		fmt.Fprintf(w, "%s:\t%s\n", k, v)
	}
	return w.Flush()
}
