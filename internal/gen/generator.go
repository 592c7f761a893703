// Package gen produces synthetic access and error logs for demos and
// testing the analysis pipeline end to end.
package gen

import (
	"fmt"
	"io"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

// accessTimeLayout is the combined log format's timestamp layout.
const accessTimeLayout = "02/Jan/2006:15:04:05 -0700"

// errorTimeLayout matches the server error log's bracketed date.
const errorTimeLayout = "Mon Jan _2 15:04:05 2006"

// Options controls the shape of a generated log.
type Options struct {
	Lines int       // Access log lines to emit
	Days  int       // Time span ending at End
	End   time.Time // Last timestamp in the log
}

var pagePaths = []string{
	"/",
	"/about",
	"/contact",
	"/blog/getting-started",
	"/blog/release-notes",
	"/products/starter-kit",
	"/products/pro-bundle",
	"/services/consulting",
	"/search",
	"/category/news",
}

var staticPaths = []string{
	"/css/site.css",
	"/js/app.js",
	"/images/logo.png",
	"/images/banner.jpg",
	"/favicon.ico",
}

var botAgents = []string{
	"Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)",
	"Mozilla/5.0 (compatible; bingbot/2.0; +http://www.bing.com/bingbot.htm)",
	"Mozilla/5.0 (compatible; YandexBot/3.0; +http://yandex.com/bots)",
	"Mozilla/5.0 (compatible; AhrefsBot/7.0; +http://ahrefs.com/robot/)",
}

var attackPaths = []string{
	"/products?id=1%20UNION%20SELECT%20username,password%20FROM%20users",
	"/search?q=<script>alert(1)</script>",
	"/../../../../etc/passwd",
	"/wp-login.php",
	"/.env",
	"/phpmyadmin/index.php",
}

var referrers = []string{
	"-",
	"-",
	"https://www.google.com/search?q=starter+kit",
	"https://www.bing.com/search?q=log+analysis",
	"https://news.example.org/weekly",
	"https://www.facebook.com/",
	"https://partner.example.net/?utm_source=newsletter&utm_medium=email&utm_campaign=spring",
}

var phpErrors = []struct {
	level, message, file string
	line                 int
}{
	{"Warning", "Undefined array key \"user_id\"", "/var/www/html/includes/session.php", 42},
	{"Warning", "Undefined array key \"user_id\"", "/var/www/html/includes/session.php", 42},
	{"Notice", "Trying to access array offset on value of type null", "/var/www/html/templates/header.php", 17},
	{"Fatal error", "Uncaught TypeError: unsupported operand types", "/var/www/html/cart/checkout.php", 205},
	{"Error", "Call to undefined function render_widget()", "/var/www/html/templates/sidebar.php", 88},
}

// visitor is one synthetic client reused across requests so the output
// produces believable sessions.
type visitor struct {
	ip        string
	userAgent string
	bot       bool
	attacker  bool
}

// Generator emits synthetic combined-format logs. The same seed always
// produces the same output.
type Generator struct {
	faker *gofakeit.Faker
}

// New creates a generator with a deterministic seed.
func New(seed uint64) *Generator {
	return &Generator{faker: gofakeit.New(seed)}
}

// WriteAccessLog writes opts.Lines combined-format lines spanning
// opts.Days and ending at opts.End. Timestamps are monotonically
// increasing, matching a real rotated log.
func (g *Generator) WriteAccessLog(w io.Writer, opts Options) error {
	if opts.Lines <= 0 {
		return fmt.Errorf("gen: lines must be positive, got %d", opts.Lines)
	}
	if opts.Days <= 0 {
		opts.Days = 1
	}
	end := opts.End
	if end.IsZero() {
		end = time.Now()
	}

	visitors := g.visitorPool(5 + opts.Lines/50)

	span := time.Duration(opts.Days) * 24 * time.Hour
	start := end.Add(-span)
	step := span / time.Duration(opts.Lines)

	ts := start
	for i := 0; i < opts.Lines; i++ {
		// Jitter within the slot keeps gaps irregular without
		// breaking monotonic order.
		jitter := time.Duration(g.faker.Number(0, int(step/time.Millisecond))) * time.Millisecond
		if _, err := fmt.Fprintln(w, g.accessLine(visitors, ts.Add(jitter))); err != nil {
			return err
		}
		ts = ts.Add(step)
	}
	return nil
}

// WriteErrorLog writes count PHP-style error lines spanning the same
// window as the access log.
func (g *Generator) WriteErrorLog(w io.Writer, count int, opts Options) error {
	if count <= 0 {
		return fmt.Errorf("gen: count must be positive, got %d", count)
	}
	if opts.Days <= 0 {
		opts.Days = 1
	}
	end := opts.End
	if end.IsZero() {
		end = time.Now()
	}

	span := time.Duration(opts.Days) * 24 * time.Hour
	ts := end.Add(-span)
	step := span / time.Duration(count)

	for i := 0; i < count; i++ {
		e := phpErrors[g.faker.Number(0, len(phpErrors)-1)]
		line := fmt.Sprintf("[%s] [error] [client %s] PHP %s:  %s in %s on line %d",
			ts.Format(errorTimeLayout), g.faker.IPv4Address(), e.level, e.message, e.file, e.line)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
		ts = ts.Add(step)
	}
	return nil
}

func (g *Generator) visitorPool(n int) []visitor {
	pool := make([]visitor, 0, n)
	for i := 0; i < n; i++ {
		v := visitor{
			ip:        g.faker.IPv4Address(),
			userAgent: g.faker.UserAgent(),
		}
		switch {
		case i%7 == 3:
			v.bot = true
			v.userAgent = botAgents[g.faker.Number(0, len(botAgents)-1)]
		case i%13 == 7:
			v.attacker = true
		}
		pool = append(pool, v)
	}
	return pool
}

func (g *Generator) accessLine(visitors []visitor, ts time.Time) string {
	v := visitors[g.faker.Number(0, len(visitors)-1)]

	path := pagePaths[g.faker.Number(0, len(pagePaths)-1)]
	status := 200
	referrer := referrers[g.faker.Number(0, len(referrers)-1)]

	switch {
	case v.attacker:
		path = attackPaths[g.faker.Number(0, len(attackPaths)-1)]
		status = []int{403, 404, 401, 200}[g.faker.Number(0, 3)]
		referrer = "-"
	case !v.bot && g.faker.Number(0, 9) == 0:
		// Occasional static asset fetch from regular browsers.
		path = staticPaths[g.faker.Number(0, len(staticPaths)-1)]
	case g.faker.Number(0, 19) == 0:
		status = []int{301, 302, 404, 500}[g.faker.Number(0, 3)]
	}
	if v.bot {
		referrer = "-"
	}

	size := g.faker.Number(200, 60000)
	respTime := g.faker.Float64Range(0.005, 2.5)

	return fmt.Sprintf(`%s - - [%s] "GET %s HTTP/1.1" %d %d "%s" "%s" %.3f`,
		v.ip, ts.Format(accessTimeLayout), path, status, size, referrer, v.userAgent, respTime)
}
