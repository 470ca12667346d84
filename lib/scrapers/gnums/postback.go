package gnums

import (
	"github.com/PuerkitoBio/goquery"
)

// the hidden fields the portal expects back even when a page omits them
var wellKnownFields = []string{
	"__VIEWSTATE",
	"__VIEWSTATEGENERATOR",
	"__VIEWSTATEENCRYPTED",
	"__EVENTVALIDATION",
	"hfWidth",
	"hfHeight",
	"hfLoginMethod",
}

// FormState is the ASP.NET postback state of a single rendered page.
// It must be re-extracted from a fresh fetch immediately before each
// postback, the server rejects stale state.
type FormState struct {
	Hidden map[string]string
}

// collects every hidden input on the page, absent well-known fields are
// filled in as empty strings so payload construction never branches
func ExtractFormState(doc *goquery.Document) FormState {
	hidden := map[string]string{}
	doc.Find("input[type=hidden]").Each(func(_ int, sel *goquery.Selection) {
		name, ok := sel.Attr("name")
		if !ok || name == "" {
			name, ok = sel.Attr("id")
			if !ok || name == "" {
				return
			}
		}
		hidden[name] = sel.AttrOr("value", "")
	})
	for _, field := range wellKnownFields {
		if _, ok := hidden[field]; !ok {
			hidden[field] = ""
		}
	}
	return FormState{Hidden: hidden}
}

// form data for a postback replaying this state with the given event
func (s FormState) Payload(target, argument string) map[string]string {
	payload := make(map[string]string, len(s.Hidden)+2)
	for name, value := range s.Hidden {
		payload[name] = value
	}
	payload["__EVENTTARGET"] = target
	payload["__EVENTARGUMENT"] = argument
	return payload
}
