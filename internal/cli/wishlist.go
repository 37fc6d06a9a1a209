package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kuriosis/wallbuilder/pkg/store"
)

// newWishlistCmd creates the wishlist command group.
func newWishlistCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "wishlist",
		Short: "Manage the product wishlist",
	}
	cmd.PersistentFlags().StringVar(&file, "file", "", "wishlist file (default: user cache dir)")

	cmd.AddCommand(newWishlistListCmd(&file))
	cmd.AddCommand(newWishlistAddCmd(&file))
	cmd.AddCommand(newWishlistRemoveCmd(&file))
	return cmd
}

func wishlistPath(override string) string {
	if override != "" {
		return override
	}
	base, err := os.UserCacheDir()
	if err != nil {
		base = "."
	}
	return filepath.Join(base, appName, "wishlist.json")
}

func newWishlistListCmd(file *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List wishlisted product handles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := store.LoadWishlist(wishlistPath(*file))
			if len(w.Handles) == 0 {
				printInfo("wishlist is empty")
				return nil
			}
			for _, handle := range w.Handles {
				printDetail("%s", handle)
			}
			return nil
		},
	}
}

func newWishlistAddCmd(file *string) *cobra.Command {
	return &cobra.Command{
		Use:   "add <handle>",
		Short: "Add a product handle to the wishlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := wishlistPath(*file)
			w := store.LoadWishlist(path)
			if !w.Add(args[0]) {
				printInfo("%s is already wishlisted", args[0])
				return nil
			}
			if err := store.SaveWishlist(path, w); err != nil {
				return err
			}
			printSuccess("added %s", args[0])
			return nil
		},
	}
}

func newWishlistRemoveCmd(file *string) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <handle>",
		Short: "Remove a product handle from the wishlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := wishlistPath(*file)
			w := store.LoadWishlist(path)
			if !w.Remove(args[0]) {
				printInfo("%s is not on the wishlist", args[0])
				return nil
			}
			if err := store.SaveWishlist(path, w); err != nil {
				return err
			}
			printSuccess("removed %s", args[0])
			return nil
		},
	}
}
