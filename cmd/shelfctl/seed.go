package main

import (
	"fmt"

	"github.com/msomdec/shelfmate/internal/seed"
	"github.com/spf13/cobra"
)

func newSeedCmd(open opener) *cobra.Command {
	var opts seed.Options

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the store with generated users, books, and friendships",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.store.Close()

			res, err := seed.New(a.accounts, a.books, a.friends).Run(cmd.Context(), opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "created %d users, %d books, %d friendships\n", len(res.Users), res.Books, res.Friendships)
			for _, u := range res.Users {
				fmt.Fprintf(out, "  %s  %-30s %s\n", u.ID.Hex(), u.Fullname, u.Email)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.Users, "users", 10, "number of users to create")
	cmd.Flags().IntVar(&opts.BooksPerUser, "books", 5, "books per user")
	cmd.Flags().IntVar(&opts.FriendsPerUser, "friends", 3, "friends per user (at most)")
	cmd.Flags().StringVar(&opts.Password, "password", seed.DefaultPassword, "password for every seeded account")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "random seed for reproducible data (0 = random)")
	return cmd
}
