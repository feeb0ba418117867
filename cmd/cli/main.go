package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "stockledger-cli",
		Short: "Stock ledger CLI tool",
		Long:  `A command line interface for interacting with the stock ledger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the stock ledger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	entryCmd := &cobra.Command{
		Use:   "entry",
		Short: "Ledger entry operations",
	}
	entryCmd.AddCommand(entryAddCmd(), entryRmCmd())

	batchCmd := &cobra.Command{
		Use:   "batch",
		Short: "Batch query operations",
	}
	batchCmd.AddCommand(batchListCmd(), batchStockCmd(), batchReworkCmd())

	rootCmd.AddCommand(entryCmd, batchCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func entryAddCmd() *cobra.Command {
	var (
		ledger   string
		activity string
		item     string
		batch    string
		qty      string
		date     string
		expiry   string
		doc      string
		note     string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a ledger entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]any{
				"activity":        activity,
				"item_name":       item,
				"quantity":        qty,
				"document_number": doc,
			}

			entryDate, err := parseDate(date)
			if err != nil {
				return err
			}
			payload["date"] = entryDate

			if batch != "" {
				payload["batch_id"] = batch
			}
			if note != "" {
				payload["note"] = note
			}
			if expiry != "" {
				expiryDate, err := parseDate(expiry)
				if err != nil {
					return err
				}
				payload["expiry_date"] = expiryDate
			}

			return postJSON(fmt.Sprintf("%s/api/v1/ledgers/%s/entries", baseURL, ledger), payload)
		},
	}

	cmd.Flags().StringVar(&ledger, "ledger", "finished", "Ledger name (finished or material)")
	cmd.Flags().StringVar(&activity, "activity", "", "Activity kind")
	cmd.Flags().StringVar(&item, "item", "", "Item name")
	cmd.Flags().StringVar(&batch, "batch", "", "Batch ID (optional for auto-batch activities)")
	cmd.Flags().StringVar(&qty, "qty", "", "Quantity")
	cmd.Flags().StringVar(&date, "date", "", "Transaction date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&expiry, "expiry", "", "Expiry date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&doc, "doc", "", "Document number")
	cmd.Flags().StringVar(&note, "note", "", "Note")
	cmd.MarkFlagRequired("activity")
	cmd.MarkFlagRequired("item")
	cmd.MarkFlagRequired("qty")
	cmd.MarkFlagRequired("doc")

	return cmd
}

func entryRmCmd() *cobra.Command {
	var ledger string

	cmd := &cobra.Command{
		Use:   "rm <entry-id>",
		Short: "Delete a ledger entry and replay its batch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := fmt.Sprintf("%s/api/v1/ledgers/%s/entries/%s", baseURL, ledger, args[0])

			req, err := http.NewRequest(http.MethodDelete, url, nil)
			if err != nil {
				return err
			}

			client := &http.Client{Timeout: timeout}
			resp, err := client.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusNoContent {
				body, _ := io.ReadAll(resp.Body)
				return fmt.Errorf("delete failed (status %d): %s", resp.StatusCode, string(body))
			}

			fmt.Println("deleted")
			return nil
		},
	}

	cmd.Flags().StringVar(&ledger, "ledger", "finished", "Ledger name (finished or material)")

	return cmd
}

func batchListCmd() *cobra.Command {
	var (
		ledger   string
		item     string
		activity string
		all      bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List an item's batches, expiry first",
		RunE: func(cmd *cobra.Command, args []string) error {
			url := fmt.Sprintf("%s/api/v1/ledgers/%s/items/%s/batches", baseURL, ledger, item)
			if all {
				url += "?all=true"
			} else if activity != "" {
				url += "?activity=" + activity
			}

			return getJSON(url)
		},
	}

	cmd.Flags().StringVar(&ledger, "ledger", "finished", "Ledger name (finished or material)")
	cmd.Flags().StringVar(&item, "item", "", "Item name")
	cmd.Flags().StringVar(&activity, "activity", "", "Consumption activity to validate against")
	cmd.Flags().BoolVar(&all, "all", false, "Include empty batches")
	cmd.MarkFlagRequired("item")

	return cmd
}

func batchStockCmd() *cobra.Command {
	var (
		ledger string
		item   string
		batch  string
	)

	cmd := &cobra.Command{
		Use:   "stock",
		Short: "Show current stock of one batch",
		RunE: func(cmd *cobra.Command, args []string) error {
			url := fmt.Sprintf("%s/api/v1/ledgers/%s/items/%s/batches/%s/stock", baseURL, ledger, item, batch)
			return getJSON(url)
		},
	}

	cmd.Flags().StringVar(&ledger, "ledger", "finished", "Ledger name (finished or material)")
	cmd.Flags().StringVar(&item, "item", "", "Item name")
	cmd.Flags().StringVar(&batch, "batch", "", "Batch ID")
	cmd.MarkFlagRequired("item")
	cmd.MarkFlagRequired("batch")

	return cmd
}

func batchReworkCmd() *cobra.Command {
	var item string

	cmd := &cobra.Command{
		Use:   "rework",
		Short: "List finished goods batches with rework outstanding",
		RunE: func(cmd *cobra.Command, args []string) error {
			url := fmt.Sprintf("%s/api/v1/ledgers/finished/items/%s/rework-batches", baseURL, item)
			return getJSON(url)
		},
	}

	cmd.Flags().StringVar(&item, "item", "", "Item name")
	cmd.MarkFlagRequired("item")

	return cmd
}

// parseDate accepts YYYY-MM-DD and returns an RFC3339 timestamp at midnight
// UTC. An empty input means today.
func parseDate(input string) (string, error) {
	if input == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).Format(time.RFC3339), nil
	}

	d, err := time.Parse("2006-01-02", input)
	if err != nil {
		return "", fmt.Errorf("invalid date %q (use YYYY-MM-DD): %w", input, err)
	}

	return d.Format(time.RFC3339), nil
}

func postJSON(url string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func getJSON(url string) error {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("request failed (status %d): %s", resp.StatusCode, string(body))
	}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		fmt.Println(string(body))
		return nil
	}

	printJSON(decoded)
	return nil
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Println(v)
		return
	}
	fmt.Println(string(out))
}
