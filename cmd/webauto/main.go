package main

import (
	"context"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tidwall/sjson"

	"github.com/luispater/webAutomationUtils/element"
	"github.com/luispater/webAutomationUtils/human"
	"github.com/luispater/webAutomationUtils/scrape"
	"github.com/luispater/webAutomationUtils/session"
	"github.com/luispater/webAutomationUtils/weberr"
)

var (
	profilePath string
	outPath     string
)

func main() {
	root := &cobra.Command{
		Use:   "webauto",
		Short: "Demo driver for the webAutomationUtils helpers",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			profile, err := LoadProfile(profilePath)
			if err != nil {
				return err
			}
			if profile.LogLevel != "" {
				level, errParse := log.ParseLevel(profile.LogLevel)
				if errParse != nil {
					return fmt.Errorf("invalid log-level '%s': %w", profile.LogLevel, errParse)
				}
				log.SetLevel(level)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&profilePath, "config", "c", "", "yaml launch profile")

	browse := &cobra.Command{
		Use:   "browse URL SELECTOR",
		Short: "Open a page, wait for an element and interact like a human",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(args[0], args[1])
		},
	}

	scrapeCmd := &cobra.Command{
		Use:   "scrape URL",
		Short: "Open a page and dump its title, texts and links as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScrape(args[0])
		},
	}
	scrapeCmd.Flags().StringVarP(&outPath, "out", "o", "", "write the JSON report to a file instead of stdout")

	root.AddCommand(browse, scrapeCmd)

	if err := root.Execute(); err != nil {
		log.Errorf("%s", weberr.Clean(err))
		os.Exit(1)
	}
}

func runBrowse(url, selector string) error {
	profile, err := LoadProfile(profilePath)
	if err != nil {
		return err
	}

	return session.With(context.Background(), profile.SessionConfig(), func(s *session.Session) error {
		log.Infof("Session %s using user agent: %s", s.ID(), s.UserAgent())
		if errNav := s.Navigate(url); errNav != nil {
			return errNav
		}

		ref, errFind := element.Find(s, selector, element.ByQuery, element.Options{
			Timeout:  profile.timeout(),
			Interval: profile.interval(),
		})
		if errFind != nil {
			return errFind
		}

		text, errText := ref.Text()
		if errText != nil {
			return errText
		}
		log.Infof("Element '%s' text: %s", selector, text)

		pacer := &human.Pauser{}
		pacer.MimicHuman(s, human.MimicOptions{Scroll: true, MouseMove: true})
		return pacer.Click(ref, 0)
	})
}

func runScrape(url string) error {
	profile, err := LoadProfile(profilePath)
	if err != nil {
		return err
	}

	return session.With(context.Background(), profile.SessionConfig(), func(s *session.Session) error {
		if errNav := s.Navigate(url); errNav != nil {
			return errNav
		}

		title, errTitle := scrape.Title(s)
		if errTitle != nil {
			return errTitle
		}
		headings, errTexts := scrape.Texts(s, "h1, h2")
		if errTexts != nil {
			return errTexts
		}
		links, errLinks := scrape.Links(s)
		if errLinks != nil {
			return errLinks
		}

		report, errReport := buildReport(url, title, headings, links)
		if errReport != nil {
			return errReport
		}

		if outPath != "" {
			return os.WriteFile(outPath, []byte(report), 0644)
		}
		fmt.Println(report)
		return nil
	})
}

func buildReport(url, title string, headings []string, links []scrape.Link) (string, error) {
	report := "{}"
	var err error
	if report, err = sjson.Set(report, "url", url); err != nil {
		return "", err
	}
	if report, err = sjson.Set(report, "title", title); err != nil {
		return "", err
	}
	for i, h := range headings {
		if report, err = sjson.Set(report, fmt.Sprintf("headings.%d", i), h); err != nil {
			return "", err
		}
	}
	for i, l := range links {
		if report, err = sjson.Set(report, fmt.Sprintf("links.%d.text", i), l.Text); err != nil {
			return "", err
		}
		if report, err = sjson.Set(report, fmt.Sprintf("links.%d.href", i), l.Href); err != nil {
			return "", err
		}
	}
	return report, nil
}
