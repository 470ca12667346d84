package bmusite

import (
	"context"

	"bmu-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

type NewsItem struct {
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Link        *string `json:"link"`
}

type Testimonial struct {
	Name        *string `json:"name"`
	Designation *string `json:"designation"`
	Testimonial *string `json:"testimonial"`
	Photo       *string `json:"photo"`
}

type PublicInfo struct {
	UpcomingEvents      []NewsItem    `json:"upcoming_events"`
	LatestNews          []NewsItem    `json:"latest_news"`
	StudentTestimonials []Testimonial `json:"student_testimonials"`
}

// FetchPublicInfo scrapes the welcome page's events, news and
// testimonial sections.
func (c *Client) FetchPublicInfo(ctx context.Context) (PublicInfo, error) {
	ctx, span := tracer.Start(ctx, "client:FetchPublicInfo")
	defer span.End()

	doc, err := c.getDocument(ctx, welcomePage, nil)
	if err != nil {
		return PublicInfo{}, err
	}
	return c.parsePublicInfo(doc), nil
}

func (c *Client) parsePublicInfo(doc *goquery.Document) PublicInfo {
	info := PublicInfo{
		UpcomingEvents:      []NewsItem{},
		LatestNews:          []NewsItem{},
		StudentTestimonials: []Testimonial{},
	}

	doc.Find("div.col-lg-6").Each(func(_ int, div *goquery.Selection) {
		title := htmlutil.CleanText(div.Find("h2.section-title").First().Text())
		var section *[]NewsItem
		switch title {
		case "Upcoming Events":
			section = &info.UpcomingEvents
		case "Latest News":
			section = &info.LatestNews
		default:
			return
		}

		div.Find("tr").Each(func(i int, row *goquery.Selection) {
			if i == 0 {
				return
			}
			cells := row.Find("td")
			if cells.Length() < 2 {
				return
			}
			item := NewsItem{
				Date: htmlutil.CleanText(cells.Eq(0).Text()),
			}
			descCell := cells.Eq(1)
			if anchor := descCell.Find("a").First(); anchor.Length() > 0 {
				item.Description = htmlutil.CleanText(anchor.Text())
				if href, ok := anchor.Attr("href"); ok {
					link := c.absolute(href)
					item.Link = &link
				}
			} else {
				item.Description = htmlutil.CleanText(descCell.Text())
			}
			*section = append(*section, item)
		})
	})

	doc.Find("div.testimonial-item").Each(func(_ int, item *goquery.Selection) {
		testimonial := Testimonial{
			Name:        htmlutil.OptTextIn(item, "h5"),
			Designation: htmlutil.OptTextIn(item, "small"),
			Testimonial: htmlutil.OptTextIn(item, "p"),
		}
		if src, ok := item.Find("img").First().Attr("src"); ok {
			photo := c.absolute(src)
			testimonial.Photo = &photo
		}
		info.StudentTestimonials = append(info.StudentTestimonials, testimonial)
	})

	return info
}
