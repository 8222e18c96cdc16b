package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	appctx "github.com/bassista/go_park/internal/app"
	"github.com/bassista/go_park/internal/parking"
	"github.com/bassista/go_park/internal/render"
	"github.com/spf13/cobra"
)

func newShowCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Draw the lot grid with its counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(flags, func(s *appctx.Session) error {
				spots, err := s.Lot.Spots(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, render.Grid(spots, s.Config.Lot.GridColumns))
				printLotStats(out, parking.Stats(spots))
				return nil
			})
		},
	}
}

func newStatsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print lot and city counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(flags, func(s *appctx.Session) error {
				stats, err := s.Lot.Stats(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				printLotStats(out, stats)

				global, ok, err := s.Cities.GlobalStats(cmd.Context())
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, "Cities: no data yet")
					return nil
				}
				fmt.Fprintf(out, "Cities: %d free, %d occupied (tracking %d spots)\n", global.Free, global.Occupied, global.Tracked)
				return nil
			})
		},
	}
}

func newReserveCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "reserve <id>",
		Short: "Reserve a free spot or cancel a reservation",
		Long: `Toggle the reservation of the spot with the given id (0-based, spot A-1 is id 0).
Occupied spots cannot be reserved.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil || id < 0 {
				return fmt.Errorf("invalid spot id %q", args[0])
			}
			return withSession(flags, func(s *appctx.Session) error {
				res, err := s.Lot.ToggleReservation(cmd.Context(), id)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				printFeed(out, s, 1)
				if idx, ok := parking.Find(res.Spots, id); ok && res.Spots[idx].Status == parking.StatusOccupied {
					fmt.Fprintf(out, "%s is occupied and cannot be reserved\n", res.Spots[idx].Label)
				}
				printLotStats(out, parking.Stats(res.Spots))
				return nil
			})
		},
	}
}

func newTickCmd(flags *globalFlags) *cobra.Command {
	var count int
	var every time.Duration

	cmd := &cobra.Command{
		Use:   "tick",
		Short: "Run traffic simulator steps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("--count must be at least 1, got %d", count)
			}
			return withSession(flags, func(s *appctx.Session) error {
				for i := 0; i < count; i++ {
					if i > 0 && every > 0 {
						select {
						case <-cmd.Context().Done():
							return cmd.Context().Err()
						case <-time.After(every):
						}
					}
					if _, err := s.Lot.Tick(cmd.Context()); err != nil {
						return err
					}
				}
				out := cmd.OutOrStdout()
				if s.Feed.Len() == 0 {
					fmt.Fprintln(out, "no eligible spots, nothing changed")
				}
				printFeed(out, s, 0)
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of steps")
	cmd.Flags().DurationVar(&every, "every", 0, "pause between steps")
	return cmd
}

func newCitiesCmd(flags *globalFlags) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "cities",
		Short: "List the city aggregates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(flags, func(s *appctx.Session) error {
				lots, err := s.Cities.Lots(cmd.Context())
				if refresh && err == nil {
					lots, err = s.Cities.Refresh(cmd.Context())
				}
				if err != nil {
					return err
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "CITY\tFREE\tOCCUPIED\tTOTAL\tUPDATED")
				for _, name := range s.Cities.Cities() {
					lot, ok := lots[name]
					if !ok {
						continue
					}
					fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\n", name, lot.Free, lot.Occupied, lot.Total, lot.LastUpdate.Format(time.TimeOnly))
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "apply one refresh step before listing")
	return cmd
}

func printLotStats(out io.Writer, stats parking.LotStats) {
	fmt.Fprintf(out, "Free: %d  Occupied: %d  (reserved %d, total %d)\n", stats.Free, stats.Occupied, stats.Reserved, stats.Total)
}

// printFeed prints the newest feed entries of this invocation, oldest first.
func printFeed(out io.Writer, s *appctx.Session, limit int) {
	entries := s.Feed.Entries(limit)
	for i := len(entries) - 1; i >= 0; i-- {
		fmt.Fprintln(out, entries[i].String())
	}
}
