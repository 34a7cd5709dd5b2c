package banner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"suggestbox/pkg/config"
)

const banner = `
███████╗██╗   ██╗ ██████╗  ██████╗ ███████╗███████╗████████╗██████╗  ██████╗ ██╗  ██╗
██╔════╝██║   ██║██╔════╝ ██╔════╝ ██╔════╝██╔════╝╚══██╔══╝██╔══██╗██╔═══██╗╚██╗██╔╝
███████╗██║   ██║██║  ███╗██║  ███╗█████╗  ███████╗   ██║   ██████╔╝██║   ██║ ╚███╔╝
╚════██║██║   ██║██║   ██║██║   ██║██╔══╝  ╚════██║   ██║   ██╔══██╗██║   ██║ ██╔██╗
███████║╚██████╔╝╚██████╔╝╚██████╔╝███████╗███████║   ██║   ██████╔╝╚██████╔╝██╔╝ ██╗
╚══════╝ ╚═════╝  ╚═════╝  ╚═════╝ ╚══════╝╚══════╝   ╚═╝   ╚═════╝  ╚═════╝ ╚═╝  ╚═╝
`

// Print writes the startup banner with the effective config summary.
func Print(eff config.EffectiveConfigResult, version string) {
	fmt.Print(banner)
	fmt.Println("== Config =====================================================")
	fmt.Printf("Listen:    %s\n", eff.Addr)
	fmt.Printf("Storage:   %s (%s, %s)\n", eff.Config.Storage.Backend, eff.DataPath, dataSize(eff.DataPath))
	if version != "" {
		fmt.Printf("Version:   %s\n", version)
	}
	fmt.Printf("Config sources: %s\n", eff.Source)
	if len(eff.Config.Security.Admins) > 0 {
		fmt.Printf("Admins:    %d nickname(s) allow-listed (enforced server-side)\n", len(eff.Config.Security.Admins))
	} else {
		fmt.Println("Admins:    none configured — any valid token may manage suggestions")
	}
	fmt.Println("\n== Endpoints ==================================================")
	fmt.Println("POST   /api/suggestions      - submit a suggestion (anonymous)")
	fmt.Println("GET    /api/suggestions      - list suggestions (bearer token)")
	fmt.Println("PATCH  /api/suggestions/{id} - set the read flag (bearer token)")
	fmt.Println("DELETE /api/suggestions/{id} - delete a suggestion (bearer token)")
	fmt.Println("GET    /healthz /readyz /metrics /docs/")
}

// dataSize returns a human-readable size of the data file or directory.
func dataSize(path string) string {
	fi, err := os.Stat(path)
	if err != nil {
		return "empty"
	}
	if !fi.IsDir() {
		return humanize.Bytes(uint64(fi.Size()))
	}
	var total uint64
	_ = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if info, err := d.Info(); err == nil {
			total += uint64(info.Size())
		}
		return nil
	})
	return humanize.Bytes(total)
}
