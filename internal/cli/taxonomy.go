package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theglowcode/ai-nyr-analysis/internal/output"
	"github.com/theglowcode/ai-nyr-analysis/internal/taxonomy"
)

var taxonomyCSV string

// taxonomyCmd represents the taxonomy command
var taxonomyCmd = &cobra.Command{
	Use:   "taxonomy",
	Short: "Print the locked topic and sentiment taxonomy",
	Long: `Taxonomy prints the fixed set of topics and sentiments every
message is classified into. The set is locked: the model may not
invent labels, and anything it cannot place maps to the fallback
topic "Other / Unclear" and sentiment "Unclear".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		tax := taxonomy.Default()

		if taxonomyCSV != "" {
			if err := output.WriteTopicLookup(taxonomyCSV, tax); err != nil {
				return err
			}
			fmt.Printf("Topic lookup written to %s\n", taxonomyCSV)
			return nil
		}

		fmt.Println("Topics:")
		for _, t := range tax.Topics() {
			fmt.Printf("  %2d  %s\n", t.ID, t.Name)
		}
		fmt.Println()
		fmt.Println("Sentiments:")
		for _, s := range tax.Sentiments() {
			fmt.Printf("  %s\n", s)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(taxonomyCmd)

	taxonomyCmd.Flags().StringVar(&taxonomyCSV, "csv", "", "write the topic lookup to this CSV instead of printing")
}
