package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/spigell/roomeo/internal/criteria"
	"github.com/spigell/roomeo/internal/filtering"
	"github.com/spigell/roomeo/internal/housing"
	"github.com/spigell/roomeo/internal/logger"
	"github.com/spigell/roomeo/internal/pricing"
	"github.com/spigell/roomeo/internal/ranking"
	"github.com/spigell/roomeo/internal/store"
)

const (
	PromptToggleSaved = "Save / unsave"
	PromptPriceCheck  = "Price check"
	PromptDetails     = "Details"
	PromptBack        = "back"
	PromptExit        = "exit"
)

var errExit = errors.New("exit requested")

var roomsCmd = &cobra.Command{
	Use:   "rooms",
	Short: "Search rooms near campus",
	Run: func(cmd *cobra.Command, _ []string) {
		runRooms(cmd)
	},
}

func init() {
	rootCmd.AddCommand(roomsCmd)

	f := roomsCmd.Flags()
	f.StringP("search", "s", "", "match title or location")
	f.Float64("price-min", criteria.DefaultPriceMin, "minimum monthly rent (RM)")
	f.Float64("price-max", criteria.DefaultPriceMax, "maximum monthly rent (RM)")
	f.Float64("max-distance", criteria.DefaultMaxDistance, "maximum distance to campus (km)")
	f.StringSlice("room-type", nil, "room types to include (repeatable)")
	f.StringSlice("facility", nil, "facilities every room must have (repeatable)")
	f.String("bedrooms", "", "bedroom count: any, N or N+")
	f.String("bathrooms", "", "bathroom count: any, N or N+")
	f.String("lease", "", "lease length in months: any, N or N+")
	f.Bool("available-now", false, "only rooms available now")
	f.StringP("keyword", "k", "", "match description or facilities")
	f.String("sort", "", "sort order: "+sortKeys())
	f.Bool("saved-only", false, "only saved rooms")
	f.StringP("output", "o", outputTable, "output format: table or json")
	f.BoolP("interactive", "i", false, "pick a room from the results to save or price check")
}

func runRooms(cmd *cobra.Command) {
	s := newSession(cmd)
	ctx := context.Background()

	output, _ := cmd.Flags().GetString("output")
	if err := validOutput(output); err != nil {
		s.logger.Fatal("invalid flags", zap.Error(err))
	}

	c := listingCriteria(s.config.Rooms.Criteria(), cmd.Flags()).Normalize()
	log := logger.WithFields(s.logger, logger.CommonFields(string(store.KindRooms), c.SortBy.String())...)

	savedOnly, _ := cmd.Flags().GetBool("saved-only")
	saved := s.savedStore()

	steps := []filtering.Filter[housing.Listing]{
		filtering.NewListingCriteria(log, c),
		filtering.NewSavedListings(log, saved, savedOnly),
	}

	for _, status := range filtering.Describe(steps) {
		log.Debug("filter status",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
			zap.Any("details", status.Details),
		)
	}

	filtered, err := filtering.Run(ctx, log, steps, s.data.Listings)
	if err != nil {
		log.Fatal("filtering failed", zap.Error(err))
	}

	results := ranking.Listings(filtered, c.SortBy)
	log.Info("rooms found", zap.Int("count", len(results)), zap.Int("total", s.data.Listings.Len()))

	out := cmd.OutOrStdout()
	if output == outputJSON {
		if err := writeJSON(out, listingViews(results, saved)); err != nil {
			log.Fatal("writing results", zap.Error(err))
		}
		return
	}

	fmt.Fprintln(out, tagLine(c.ActiveTags()))
	if err := printListings(out, results, saved); err != nil {
		log.Fatal("writing results", zap.Error(err))
	}

	if interactive, _ := cmd.Flags().GetBool("interactive"); !interactive || len(results) == 0 {
		return
	}

	if err := browseListings(out, log, results, saved); err != nil && !errors.Is(err, errExit) {
		log.Fatal("exiting", zap.Error(err))
	}
}

// listingCriteria overrides base with the flags the user actually set.
func listingCriteria(base criteria.ListingCriteria, f *pflag.FlagSet) criteria.ListingCriteria {
	c := base
	if f.Changed("search") {
		c.Search, _ = f.GetString("search")
	}
	if f.Changed("price-min") || f.Changed("price-max") {
		lo, _ := f.GetFloat64("price-min")
		hi, _ := f.GetFloat64("price-max")
		if base.PriceRange.Active() {
			if !f.Changed("price-min") {
				lo = base.PriceRange.Min
			}
			if !f.Changed("price-max") {
				hi = base.PriceRange.Max
			}
		}
		c.PriceRange = criteria.NewRange(lo, hi)
	}
	if f.Changed("max-distance") {
		d, _ := f.GetFloat64("max-distance")
		c.MaxDistance = &d
	}
	if f.Changed("room-type") {
		c.RoomTypes, _ = f.GetStringSlice("room-type")
	}
	if f.Changed("facility") {
		c.Facilities, _ = f.GetStringSlice("facility")
	}
	if f.Changed("bedrooms") {
		v, _ := f.GetString("bedrooms")
		c.Bedrooms = criteria.ParseCount(v)
	}
	if f.Changed("bathrooms") {
		v, _ := f.GetString("bathrooms")
		c.Bathrooms = criteria.ParseCount(v)
	}
	if f.Changed("lease") {
		v, _ := f.GetString("lease")
		c.LeaseDuration = criteria.ParseCount(v)
	}
	if f.Changed("available-now") {
		c.AvailableNow, _ = f.GetBool("available-now")
	}
	if f.Changed("keyword") {
		c.Keyword, _ = f.GetString("keyword")
	}
	if f.Changed("sort") {
		v, _ := f.GetString("sort")
		c.SortBy = criteria.ParseSortBy(v)
	}
	return c
}

type listingView struct {
	housing.Listing
	Saved      bool               `json:"saved"`
	PriceCheck pricing.Suggestion `json:"price_check"`
}

func listingViews(ls []housing.Listing, saved store.SavedStore) []listingView {
	views := make([]listingView, 0, len(ls))
	for _, l := range ls {
		isSaved, _ := saved.Contains(store.KindRooms, l.ID)
		views = append(views, listingView{Listing: l, Saved: isSaved, PriceCheck: pricing.Suggest(pricing.AttributesOf(l))})
	}
	return views
}

func printListings(w io.Writer, ls []housing.Listing, saved store.SavedStore) error {
	tw := newTable(w, "ID", "TITLE", "PRICE", "FAIR RANGE", "LOCATION", "KM", "TYPE", "SAVED")
	for _, v := range listingViews(ls, saved) {
		row(tw, v.ID, v.Title, fmt.Sprintf("RM %d", v.Price),
			fmt.Sprintf("RM %d-%d", v.PriceCheck.RangeMin, v.PriceCheck.RangeMax),
			v.Location, v.Distance, v.RoomType, mark(v.Saved))
	}
	return tw.Flush()
}

func browseListings(w io.Writer, log *zap.Logger, ls []housing.Listing, saved store.SavedStore) error {
	for {
		items := make([]string, 0, len(ls)+1)
		for _, l := range ls {
			items = append(items, fmt.Sprintf("%s %s / RM %d / %s", l.ID, l.Title, l.Price, l.Location))
		}

		roomPrompt := promptui.Select{
			Label: "Choose a room and press ENTER",
			Items: append(items, PromptExit),
		}

		_, selected, err := roomPrompt.Run()
		if err != nil {
			return err
		}
		if selected == PromptExit {
			return errExit
		}

		id := strings.Split(selected, " ")[0]
		listing := housing.Listings(ls).FindByID(id)
		if listing == nil {
			return fmt.Errorf("there is no such room id %s", id)
		}

		if err := listingActions(w, log, listing, saved); err != nil {
			return err
		}
	}
}

func listingActions(w io.Writer, log *zap.Logger, l *housing.Listing, saved store.SavedStore) error {
	for {
		actionPrompt := promptui.Select{
			Label: l.Title,
			Items: []string{PromptToggleSaved, PromptPriceCheck, PromptDetails, PromptBack},
		}

		_, action, err := actionPrompt.Run()
		if err != nil {
			return err
		}

		switch action {
		case PromptBack:
			return nil
		case PromptToggleSaved:
			now, err := saved.Toggle(store.KindRooms, l.ID)
			if err != nil {
				return fmt.Errorf("toggle saved room: %w", err)
			}
			log.Info("saved rooms updated", zap.String("listing_id", l.ID), zap.Bool("saved", now))
		case PromptPriceCheck:
			printSuggestion(w, pricing.Suggest(pricing.AttributesOf(*l)), l.Price)
		case PromptDetails:
			printListingDetails(w, l)
		default:
			return fmt.Errorf("invalid action: %s", action)
		}
	}
}

func printListingDetails(w io.Writer, l *housing.Listing) {
	fmt.Fprintf(w, "%s (%s)\n", l.Title, l.ID)
	fmt.Fprintf(w, "  RM %d / month, %s, %.1f km from campus\n", l.Price, l.Location, l.Distance)
	fmt.Fprintf(w, "  %s, %d bedroom(s), %d bathroom(s)\n", l.RoomType, l.BedroomCount(), l.BathroomCount())
	if len(l.Facilities) > 0 {
		fmt.Fprintf(w, "  Facilities: %s\n", strings.Join(l.Facilities, ", "))
	}
	if l.LeaseMonths > 0 {
		fmt.Fprintf(w, "  Lease: %d months\n", l.LeaseMonths)
	}
	if l.Landlord != "" {
		fmt.Fprintf(w, "  Landlord: %s\n", l.Landlord)
	}
	if l.Description != "" {
		fmt.Fprintf(w, "  %s\n", l.Description)
	}
}

func sortKeys() string {
	keys := criteria.SortKeys()
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k.String())
	}
	return strings.Join(out, ", ")
}
