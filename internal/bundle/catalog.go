// Package bundle assembles the purchasable content bundles: a declarative
// mapping from offer tier to an ordered list of (path, template) pairs,
// plus a streaming zip writer.
//
// Bundle content is pure data. Paths are fixed per tier and never derived
// from user input; the only interpolation point is the sanitized project
// label, substituted for the {{label}} token in template bodies. There is
// no executable templating language here on purpose.
package bundle

import (
	"fmt"
	"strings"

	"github.com/tbourn/go-storefront-backend/internal/domain"
)

// labelToken is the single placeholder substituted into template bodies.
const labelToken = "{{label}}"

// FileTemplate is one named virtual file inside a bundle, before label
// interpolation.
type FileTemplate struct {
	Path string
	Body string
}

// File is a rendered bundle entry ready to be written into an archive.
type File struct {
	Path string
	Body []byte
}

var starterFiles = []FileTemplate{
	{
		Path: "package.json",
		Body: `{
  "name": "{{label}}",
  "version": "1.0.0",
  "description": "Generated SaaS boilerplate",
  "scripts": {
    "start": "node server.js"
  }
}
`,
	},
	{
		Path: "server.js",
		Body: `console.log("Welcome aboard! Your project {{label}} starts here.");
`,
	},
	{
		Path: "README.md",
		Body: `# {{label}}

Thanks for your purchase! Run ` + "`npm start`" + ` to boot the starter server.
`,
	},
}

var promptFiles = []FileTemplate{
	{
		Path: "prompts/product-spec.md",
		Body: `# Product spec prompt for {{label}}

You are a senior product manager. Draft a one-page spec for {{label}},
covering the target user, the core workflow, and the v1 cut line.
`,
	},
	{
		Path: "prompts/landing-copy.md",
		Body: `# Landing copy prompt for {{label}}

Write hero copy for {{label}}: headline, subheadline, and three benefit
bullets. Keep it under 60 words total.
`,
	},
}

var ultimateFiles = []FileTemplate{
	{
		Path: ".env.example",
		Body: `PORT=3000
DATABASE_URL=
SESSION_SECRET=change-me
`,
	},
	{
		Path: "docker-compose.yml",
		Body: `services:
  {{label}}:
    build: .
    ports:
      - "3000:3000"
    env_file: .env
`,
	},
	{
		Path: "routes/auth.js",
		Body: `// Authentication routes for {{label}}.
// Wire these into server.js once you add a session store.
module.exports = function register(app) {
  app.post('/login', (req, res) => res.status(501).send('TODO'));
  app.post('/logout', (req, res) => res.status(501).send('TODO'));
};
`,
	},
}

// catalog maps each tier to its ordered file list. Higher tiers are
// supersets of the starter bundle.
var catalog = map[domain.OfferTier][]FileTemplate{
	domain.TierStarter:  starterFiles,
	domain.TierPrompt:   concat(starterFiles, promptFiles),
	domain.TierUltimate: concat(starterFiles, promptFiles, ultimateFiles),
}

// Render returns the bundle for tier with the sanitized label interpolated
// into each template body. The label must already be sanitized by the
// caller (domain.SanitizeLabel); Render does not re-validate it.
func Render(tier domain.OfferTier, label string) ([]File, error) {
	templates, ok := catalog[tier]
	if !ok {
		return nil, fmt.Errorf("unknown offer tier %q", tier)
	}
	out := make([]File, 0, len(templates))
	for _, t := range templates {
		out = append(out, File{
			Path: t.Path,
			Body: []byte(strings.ReplaceAll(t.Body, labelToken, label)),
		})
	}
	return out, nil
}

// Paths returns the fixed entry paths for a tier, in delivery order.
func Paths(tier domain.OfferTier) []string {
	templates := catalog[tier]
	out := make([]string, 0, len(templates))
	for _, t := range templates {
		out = append(out, t.Path)
	}
	return out
}

func concat(lists ...[]FileTemplate) []FileTemplate {
	var out []FileTemplate
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}
