// ledgerctl is an operator CLI for the analytics service HTTP API.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/finlytics/ledger-analytics-service/internal/domain"
)

var (
	flagAddr           string
	flagSuggestMonths  int
	flagForecastMonths int
	flagMinConfidence  float64
	flagExcludeActive  bool
)

var rootCmd = &cobra.Command{
	Use:   "ledgerctl",
	Short: "Operator CLI for the ledger analytics service",
	Long:  "Inspect and drive the analytics service: budget suggestions, activation, health, and behavior patterns.",
}

var httpClient = &http.Client{Timeout: 30 * time.Second}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagAddr, "addr", "a", "http://localhost:8080", "Service base URL")

	suggestCmd.Flags().IntVarP(&flagSuggestMonths, "months", "n", 6, "History window in months (3-12)")
	suggestionsCmd.Flags().Float64Var(&flagMinConfidence, "min-confidence", 0.5, "Minimum confidence score")
	suggestionsCmd.Flags().BoolVar(&flagExcludeActive, "exclude-active", false, "Hide categories with an active budget")
	forecastCmd.Flags().IntVarP(&flagForecastMonths, "months", "n", 3, "Forecast horizon in months (1-12)")

	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(suggestionsCmd)
	rootCmd.AddCommand(activateCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(patternsCmd)
	rootCmd.AddCommand(forecastCmd)
}

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Generate fresh budget suggestions from ledger history",
	RunE: func(_ *cobra.Command, _ []string) error {
		var suggestions []domain.BudgetSuggestion
		path := fmt.Sprintf("/v1/budgets/suggestions/generate?months=%d", flagSuggestMonths)
		if err := call(http.MethodPost, path, &suggestions); err != nil {
			return err
		}
		printSuggestions(suggestions)
		return nil
	},
}

var suggestionsCmd = &cobra.Command{
	Use:   "suggestions",
	Short: "List stored budget suggestions",
	RunE: func(_ *cobra.Command, _ []string) error {
		var suggestions []domain.BudgetSuggestion
		path := fmt.Sprintf("/v1/budgets/suggestions?minConfidence=%g&excludeActive=%t", flagMinConfidence, flagExcludeActive)
		if err := call(http.MethodGet, path, &suggestions); err != nil {
			return err
		}
		printSuggestions(suggestions)
		return nil
	},
}

var activateCmd = &cobra.Command{
	Use:   "activate <suggestion-id>",
	Short: "Turn a suggestion into a live budget",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		var budget domain.CategoryBudget
		path := fmt.Sprintf("/v1/budgets/suggestions/%s/activate", url.PathEscape(args[0]))
		if err := call(http.MethodPost, path, &budget); err != nil {
			return err
		}
		fmt.Printf("activated budget %s: %s at %.2f/%s\n", budget.ID, budget.CategoryName, budget.LimitAmount, budget.PeriodType)
		return nil
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Show the budget health summary",
	RunE: func(_ *cobra.Command, _ []string) error {
		var summary domain.BudgetHealthSummary
		if err := call(http.MethodGet, "/v1/budgets/health", &summary); err != nil {
			return err
		}

		fmt.Printf("overall: %s (%d on track, %d warning, %d exceeded)\n",
			summary.OverallStatus, summary.OnTrackCount, summary.WarningCount, summary.ExceededCount)
		fmt.Printf("spent %.2f of %.2f budgeted\n\n", summary.TotalSpent, summary.TotalBudget)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "CATEGORY\tLIMIT\tSPENT\tUSED\tPROJECTED\tSTATUS")
		for _, b := range summary.Budgets {
			fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.0f%%\t%.2f\t%s\n",
				b.CategoryName, b.LimitAmount, b.SpentToDate, b.PercentUsed, b.ProjectedTotal, b.Status)
		}
		return w.Flush()
	},
}

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "Show detected recurring spending patterns",
	RunE: func(_ *cobra.Command, _ []string) error {
		var report domain.BehaviorReport
		if err := call(http.MethodGet, "/v1/analytics/behavior?months=3", &report); err != nil {
			return err
		}

		fmt.Printf("programmed %.2f (%.0f%%) vs impulse %.2f (%.0f%%)\n\n",
			report.ProgrammedAmount, report.ProgrammedPercent, report.ImpulseAmount, report.ImpulsePercent)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "MERCHANT\tFREQUENCY\tAVG\tCOUNT\tFIXED")
		for _, p := range report.RecurringPatterns {
			fmt.Fprintf(w, "%s\t%s\t%.2f\t%d\t%t\n",
				p.DisplayName, p.Frequency, p.AverageAmount, p.OccurrenceCount, p.IsFixedAmount)
		}
		return w.Flush()
	},
}

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Show the cash-flow scenario summaries",
	RunE: func(_ *cobra.Command, _ []string) error {
		var projection domain.CashFlowProjection
		path := fmt.Sprintf("/v1/forecast/cashflow?months=%d", flagForecastMonths)
		if err := call(http.MethodGet, path, &projection); err != nil {
			return err
		}

		fmt.Printf("current balance: %.2f\n\n", projection.CurrentBalance)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SCENARIO\tINCOME\tEXPENSES\tNET\tEND BALANCE")
		for _, s := range projection.Summaries {
			fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%+.2f\t%.2f\n",
				s.Name, s.TotalIncome, s.TotalExpenses, s.NetCashFlow, s.EndBalance)
		}
		return w.Flush()
	},
}

// call performs one API request and decodes the JSON response into out.
func call(method, path string, out interface{}) error {
	req, err := http.NewRequest(method, flagAddr+path, nil)
	if err != nil {
		return err
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("%s: %s", resp.Status, apiErr.Message)
		}
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	return json.Unmarshal(body, out)
}

func printSuggestions(suggestions []domain.BudgetSuggestion) {
	if len(suggestions) == 0 {
		fmt.Println("no suggestions")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCATEGORY\tLIMIT\tCONFIDENCE\tMONTHS\tACTIVE")
	for _, s := range suggestions {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%.2f\t%d\t%t\n",
			s.ID, s.CategoryName, s.SuggestedLimit, s.Confidence, s.SampleMonths, s.IsActive)
	}
	w.Flush()
}
