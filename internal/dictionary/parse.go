package dictionary

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Page selectors of dict.youdao.com/result.
const (
	phoneticSelector    = ".phone_con .per-phone"
	translationSelector = ".trans-container ul.basic li.word-exp"
	exampleSelector     = ".blng_sents_part.dict-module .trans-container ul li.mcols-layout"
	exampleColSelector  = ".col2 .word-exp"
)

// Region markers used in the phonetic labels.
const (
	ukMarker = "英"
	usMarker = "美"
)

// Parse extracts an Entry from a dictionary result page.
func Parse(r io.Reader) (*Entry, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	entry := &Entry{}
	parsePhonetics(doc, entry)
	parseTranslations(doc, entry)
	parseExample(doc, entry)
	return entry, nil
}

func parsePhonetics(doc *goquery.Document, entry *Entry) {
	doc.Find(phoneticSelector).Each(func(_ int, per *goquery.Selection) {
		spans := per.Find("span")
		if spans.Length() < 2 {
			return
		}

		label := strings.TrimSpace(spans.Eq(0).Text())
		value := strings.TrimSpace(spans.Eq(1).Text())

		switch {
		case strings.Contains(label, ukMarker):
			entry.UKIPA = value
		case strings.Contains(label, usMarker):
			entry.USIPA = value
		}
	})
}

func parseTranslations(doc *goquery.Document, entry *Entry) {
	doc.Find(translationSelector).Each(func(_ int, li *goquery.Selection) {
		trans := li.Find(".trans").First()
		if trans.Length() == 0 {
			return
		}

		entry.Translations = append(entry.Translations, Translation{
			PartOfSpeech: strings.TrimSpace(li.Find(".pos").First().Text()),
			Meaning:      strings.TrimSpace(trans.Text()),
		})
	})
}

// parseExample reads only the first bilingual example. Sentence text keeps
// its whitespace exactly as found.
func parseExample(doc *goquery.Document, entry *Entry) {
	module := doc.Find(exampleSelector).First()
	if module.Length() == 0 {
		return
	}

	cols := module.Find(exampleColSelector)
	if cols.Length() < 2 {
		return
	}

	if src := cols.Eq(0).Find(".sen-eng").First(); src.Length() > 0 {
		entry.ExampleSource = src.Text()
	}
	if dst := cols.Eq(1).Find(".sen-ch").First(); dst.Length() > 0 {
		entry.ExampleTranslation = dst.Text()
	}
}
