package main

import (
	"context"
	"fmt"

	"github.com/jwulff/ledstrip-go/internal/config"
	"github.com/jwulff/ledstrip-go/internal/storage"
	"github.com/jwulff/ledstrip-go/internal/storage/sqlite"
)

// activeProfileKey names the profile that run caches its frames under.
const activeProfileKey = "active_profile"

const defaultProfile = "default"

func profileCommand(args []string) error {
	if len(args) == 0 {
		showUsage()
		return nil
	}

	sub, args := args[0], args[1:]
	var name string
	switch sub {
	case "save", "show", "use", "delete":
		if len(args) == 0 {
			return fmt.Errorf("profile %s needs a name", sub)
		}
		name, args = args[0], args[1:]
	case "list":
	default:
		return fmt.Errorf("unknown profile command %q", sub)
	}

	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}
	store, err := sqlite.NewFileStore(cfg.Store.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	switch sub {
	case "save":
		p, err := saveProfile(ctx, store, name, cfg)
		if err != nil {
			return err
		}
		fmt.Printf("Saved profile %s (%s)\n", p.Name, p.ID)
	case "list":
		return listProfiles(ctx, store)
	case "show":
		p, err := store.GetProfileByName(ctx, name)
		if err != nil {
			return err
		}
		printProfile(p)
		if frame, err := store.GetCachedFrame(ctx, p.ID); err == nil {
			fmt.Printf("  Last frame: %dx%d at %s\n", frame.Rows, frame.Columns, frame.GeneratedAt.Format("2006-01-02 15:04:05"))
		}
	case "use":
		if _, err := store.GetProfileByName(ctx, name); err != nil {
			return err
		}
		if err := store.SetConfig(ctx, activeProfileKey, name); err != nil {
			return fmt.Errorf("failed to set active profile: %w", err)
		}
		fmt.Printf("Using profile %s\n", name)
	case "delete":
		p, err := store.GetProfileByName(ctx, name)
		if err != nil {
			return err
		}
		if err := store.DeleteProfile(ctx, p.ID); err != nil {
			return fmt.Errorf("failed to delete profile: %w", err)
		}
		if active, err := store.GetConfig(ctx, activeProfileKey); err == nil && active == name {
			if err := store.DeleteConfig(ctx, activeProfileKey); err != nil {
				return err
			}
		}
		fmt.Printf("Deleted profile %s\n", name)
	}
	return nil
}

// saveProfile stores the matrix settings of cfg under name, keeping the ID of
// an existing profile with that name.
func saveProfile(ctx context.Context, store storage.Store, name string, cfg *config.Config) (*storage.Profile, error) {
	p := storage.NewProfile(name, cfg.Matrix, cfg.Driver.Chip, cfg.Timing().Format, cfg.Driver.Brightness)

	existing, err := store.GetProfileByName(ctx, name)
	switch {
	case err == nil:
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
	case !storage.IsNotFound(err):
		return nil, err
	}

	if err := store.SaveProfile(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	return p, nil
}

// activeProfile returns the profile chosen with "profile use". Without one,
// cfg is saved as the default profile.
func activeProfile(ctx context.Context, store storage.Store, cfg *config.Config) (*storage.Profile, error) {
	name, err := store.GetConfig(ctx, activeProfileKey)
	if storage.IsNotFound(err) {
		return saveProfile(ctx, store, defaultProfile, cfg)
	}
	if err != nil {
		return nil, err
	}

	p, err := store.GetProfileByName(ctx, name)
	if storage.IsNotFound(err) {
		return saveProfile(ctx, store, defaultProfile, cfg)
	}
	return p, err
}

// applyProfile overrides the matrix and driver settings of cfg with p.
func applyProfile(cfg *config.Config, p *storage.Profile) {
	format := p.Format
	cfg.Matrix = p.Layout
	cfg.Driver.Chip = p.Chip
	cfg.Driver.Format = &format
	cfg.Driver.Brightness = p.Brightness
}

func listProfiles(ctx context.Context, store storage.Store) error {
	profiles, err := store.GetProfiles(ctx)
	if err != nil {
		return err
	}
	if len(profiles) == 0 {
		fmt.Println("No profiles stored.")
		return nil
	}

	active, _ := store.GetConfig(ctx, activeProfileKey)
	for _, p := range profiles {
		marker := " "
		if p.Name == active {
			marker = "*"
		}
		fmt.Printf("%s %-16s %s\n", marker, p.Name, p.Layout)
	}
	return nil
}

func printProfile(p *storage.Profile) {
	fmt.Printf("Profile %s\n", p.Name)
	fmt.Printf("  ID:         %s\n", p.ID)
	fmt.Printf("  Layout:     %s\n", p.Layout)
	fmt.Printf("  Chip:       %s (%s)\n", p.Chip, p.Format)
	fmt.Printf("  Brightness: %d\n", p.Brightness)
	fmt.Printf("  Updated:    %s\n", p.UpdatedAt.Format("2006-01-02 15:04:05"))
}
