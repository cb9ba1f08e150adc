// Command webfinger looks up WebFinger resource descriptors.
//
// Exit codes map the failure kinds: 2 content, 3 descriptor parse,
// 4 network, 5 HTTP status; 1 for anything else.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	webfinger "github.com/webfingerd/webfinger-go"
)

const (
	exitUsage   = 1
	exitContent = 2
	exitJRD     = 3
	exitNetwork = 4
	exitHTTP    = 5
)

var (
	relsFlag     []string
	timeoutFlag  time.Duration
	insecureFlag bool
	noLegacyFlag bool
	jsonFlag     bool
)

var rootCmd = &cobra.Command{
	Use:           "webfinger <resource>...",
	Short:         "Look up WebFinger resource descriptors",
	Args:          cobra.MinimumNArgs(1),
	RunE:          run,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Flags().StringArrayVar(&relsFlag, "rel", nil, "limit the response to a link relation (repeatable)")
	rootCmd.Flags().DurationVar(&timeoutFlag, "timeout", 30*time.Second, "per-request timeout")
	rootCmd.Flags().BoolVar(&insecureFlag, "http", false, "also try plain-HTTP endpoints after HTTPS")
	rootCmd.Flags().BoolVar(&noLegacyFlag, "no-legacy", false, "skip the legacy host-meta fallback endpoints")
	rootCmd.Flags().BoolVar(&jsonFlag, "json", false, "print the raw JRD instead of a summary")
}

func run(cmd *cobra.Command, args []string) error {
	opts := []webfinger.Option{
		webfinger.WithTimeout(timeoutFlag),
		webfinger.WithUserAgent("webfinger-cli/" + webfinger.Version),
	}
	if insecureFlag {
		opts = append(opts, webfinger.WithInsecureFallback())
	}
	if noLegacyFlag {
		opts = append(opts, webfinger.WithoutLegacy())
	}

	client, err := webfinger.New(opts...)
	if err != nil {
		return err
	}
	defer client.Close()

	var reqOpts []webfinger.RequestOption
	if len(relsFlag) > 0 {
		reqOpts = append(reqOpts, webfinger.WithRel(relsFlag...))
	}

	for _, resource := range args {
		jrd, err := client.Finger(cmd.Context(), resource, reqOpts...)
		if err != nil {
			return err
		}
		if err := print(cmd, jrd); err != nil {
			return err
		}
	}
	return nil
}

func print(cmd *cobra.Command, jrd *webfinger.JRD) error {
	if jsonFlag {
		data, err := jrd.MarshalJRD()
		if err != nil {
			return err
		}
		cmd.Println(string(data))
		return nil
	}

	if jrd.Subject != "" {
		cmd.Printf("subject: %s\n", jrd.Subject)
	}
	for _, alias := range jrd.Aliases {
		cmd.Printf("alias: %s\n", alias)
	}
	for uri, value := range jrd.Properties {
		if value == nil {
			cmd.Printf("property: %s\n", uri)
			continue
		}
		cmd.Printf("property: %s = %s\n", uri, *value)
	}
	for _, link := range jrd.Links {
		target := link.Href
		if target == "" {
			target = link.Template
		}
		cmd.Printf("link: %s -> %s\n", link.Rel, target)
	}
	return nil
}

func exitCode(err error) int {
	var e *webfinger.Error
	if !errors.As(err, &e) {
		return exitUsage
	}
	switch e.Kind {
	case webfinger.KindContent:
		return exitContent
	case webfinger.KindJRD:
		return exitJRD
	case webfinger.KindNetwork:
		return exitNetwork
	case webfinger.KindHTTP:
		return exitHTTP
	default:
		return exitUsage
	}
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}
