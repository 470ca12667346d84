package bmusite

import (
	"strings"
	"testing"
	"time"

	"bmu-backend/lib/telemetry"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, baseUrl string) *Client {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/bmusite")
	t.Cleanup(cleanup)

	client, err := NewClient(ClientOptions{
		BaseUrl: baseUrl,
		Timeout: time.Second * 5,
	})
	require.NoError(t, err)
	return client
}

func docFromString(t *testing.T, html string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

const welcomePageHtml = `<html><body>
<div class="col-lg-6">
<h2 class="section-title">Upcoming Events</h2>
<table>
<tr><th>Date</th><th>Event</th></tr>
<tr><td>15-09-2025</td><td><a href="uploads/events/orientation.pdf">Orientation Programme</a></td></tr>
<tr><td>20-09-2025</td><td>Sports Day</td></tr>
</table>
</div>
<div class="col-lg-6">
<h2 class="section-title">Latest News</h2>
<table>
<tr><th>Date</th><th>News</th></tr>
<tr><td>01-09-2025</td><td>Admissions open for 2025-26</td></tr>
</table>
</div>
<div class="col-lg-6">
<h2 class="section-title">Quick Links</h2>
<table><tr><td>01-01-2025</td><td>ignored section</td></tr></table>
</div>
<div class="testimonial-item">
<img src="uploads/testimonials/priya.jpg" />
<h5>Priya Desai</h5>
<small>BBA Alumna</small>
<p>Great campus life.</p>
</div>
</body></html>`

func TestParsePublicInfo(t *testing.T) {
	client := testClient(t, "https://site.test")
	info := client.parsePublicInfo(docFromString(t, welcomePageHtml))

	require.Len(t, info.UpcomingEvents, 2)
	require.Equal(t, "15-09-2025", info.UpcomingEvents[0].Date)
	require.Equal(t, "Orientation Programme", info.UpcomingEvents[0].Description)
	require.Equal(t, "https://site.test/uploads/events/orientation.pdf", *info.UpcomingEvents[0].Link)
	require.Equal(t, "Sports Day", info.UpcomingEvents[1].Description)
	require.Nil(t, info.UpcomingEvents[1].Link)

	require.Len(t, info.LatestNews, 1)
	require.Equal(t, "Admissions open for 2025-26", info.LatestNews[0].Description)

	require.Len(t, info.StudentTestimonials, 1)
	testimonial := info.StudentTestimonials[0]
	require.Equal(t, "Priya Desai", *testimonial.Name)
	require.Equal(t, "BBA Alumna", *testimonial.Designation)
	require.Equal(t, "Great campus life.", *testimonial.Testimonial)
	require.Equal(t, "https://site.test/uploads/testimonials/priya.jpg", *testimonial.Photo)
}
