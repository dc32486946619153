package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/roomeo/internal/pricing"
)

var priceCmd = &cobra.Command{
	Use:   "price",
	Short: "Suggest a fair monthly rent for a room",
	Long: `Suggest a fair monthly rent for a room described by flags,
or for a room from the records with --listing.`,
	Run: func(cmd *cobra.Command, _ []string) {
		runPrice(cmd)
	},
}

func init() {
	rootCmd.AddCommand(priceCmd)

	f := priceCmd.Flags()
	f.String("listing", "", "id of a room from the records")
	f.String("room-type", "", "room type, e.g. Studio or Master Room")
	f.String("location", "", "area, e.g. Bangsar")
	f.Float64("distance", 0, "distance to campus in km")
	f.StringSlice("facility", nil, "facilities (repeatable)")
	f.Int("bedrooms", 1, "number of bedrooms")
	f.Int("bathrooms", 1, "number of bathrooms")
	f.StringP("output", "o", outputTable, "output format: table or json")
}

func runPrice(cmd *cobra.Command) {
	s := newSession(cmd)
	flags := cmd.Flags()

	output, _ := flags.GetString("output")
	if err := validOutput(output); err != nil {
		s.logger.Fatal("invalid flags", zap.Error(err))
	}

	var (
		attrs  pricing.Attributes
		asking int
	)

	if id, _ := flags.GetString("listing"); id != "" {
		l := s.data.Listings.FindByID(id)
		if l == nil {
			s.logger.Fatal("room not found", zap.String("listing_id", id), zap.Strings("known", s.data.Listings.IDs()))
		}
		attrs = pricing.AttributesOf(*l)
		asking = l.Price
	} else {
		attrs.RoomType, _ = flags.GetString("room-type")
		attrs.Location, _ = flags.GetString("location")
		attrs.Distance, _ = flags.GetFloat64("distance")
		attrs.Facilities, _ = flags.GetStringSlice("facility")
		attrs.Bedrooms, _ = flags.GetInt("bedrooms")
		attrs.Bathrooms, _ = flags.GetInt("bathrooms")
	}

	suggestion := pricing.Suggest(attrs)
	s.logger.Debug("price suggested",
		zap.Int("suggested", suggestion.Suggested),
		zap.Strings("factors", suggestion.FactorLabels()),
	)

	out := cmd.OutOrStdout()
	if output == outputJSON {
		if err := writeJSON(out, suggestion); err != nil {
			s.logger.Fatal("writing results", zap.Error(err))
		}
		return
	}
	printSuggestion(out, suggestion, asking)
}

// printSuggestion writes a price check. asking is the listed rent, or 0.
func printSuggestion(w io.Writer, s pricing.Suggestion, asking int) {
	fmt.Fprintf(w, "Suggested: RM %d (range RM %d-%d)\n", s.Suggested, s.RangeMin, s.RangeMax)
	for _, label := range s.FactorLabels() {
		fmt.Fprintf(w, "  %s\n", label)
	}
	if asking <= 0 {
		return
	}
	switch {
	case asking < s.RangeMin:
		fmt.Fprintf(w, "Asking RM %d is below the fair range.\n", asking)
	case asking > s.RangeMax:
		fmt.Fprintf(w, "Asking RM %d is above the fair range.\n", asking)
	default:
		fmt.Fprintf(w, "Asking RM %d is within the fair range.\n", asking)
	}
}
