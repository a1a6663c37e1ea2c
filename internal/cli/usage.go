package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"

	"github.com/matveynator/proxyboi/internal/colors"
)

// configureUsage injects a custom usage printer so -h always shows stylized
// guidance covering the extra flags and positional upstream URL proxyboi
// adds.
func configureUsage(cmd *cobra.Command) {
	cmd.SetUsageFunc(func(cmd *cobra.Command) error {
		fmt.Printf("%sproxyboi%s\n", colors.Title, colors.Reset)
		fmt.Printf("%sTransparent reverse proxy with provenance headers and optional TLS.%s\n\n", colors.Accent, colors.Reset)

		fmt.Printf("%sUsage:%s\n", colors.Section, colors.Reset)
		fmt.Printf("  proxyboi [flags] <UPSTREAM_URL>\n\n")

		fmt.Printf("%sFlags:%s\n", colors.Section, colors.Reset)
		padding := 0
		cmd.Flags().VisitAll(func(f *flag.Flag) {
			if len(f.Name) > padding {
				padding = len(f.Name)
			}
		})
		cmd.Flags().VisitAll(func(f *flag.Flag) {
			name := "--" + f.Name
			if f.Shorthand != "" {
				name = fmt.Sprintf("-%s, %s", f.Shorthand, name)
			}
			fmt.Printf("  %s%-*s%s  %s%s%s (default %q)\n",
				colors.Title,
				padding+6,
				name,
				colors.Reset,
				colors.Accent,
				strings.TrimSpace(f.Usage),
				colors.Reset,
				f.DefValue,
			)
		})

		fmt.Printf("\n%sQuick start:%s\n", colors.Section, colors.Reset)
		fmt.Printf("  %sMinimal:%s  proxyboi http://127.0.0.1:9000\n", colors.Example, colors.Reset)
		fmt.Printf("  %sExtended:%s proxyboi -v --timeout 10 --cert server.crt --key server.key https://internal.service\n", colors.Example, colors.Reset)

		fmt.Printf("\n%sNotes:%s\n", colors.Section, colors.Reset)
		fmt.Printf("  %sUse --insecure only against upstreams whose TLS certificates you cannot otherwise validate.%s\n", colors.Warn, colors.Reset)
		return nil
	})
}
