package extract

import (
	"bufio"
	"regexp"
	"strings"

	"github.com/adforge/briefapi/internal/domain/briefModel"
)

// The heuristic extractor guarantees pipeline liveness: whenever the model
// boundary is unavailable or keeps returning garbage, these regexes pull a
// best-effort brief out of the raw text. Deliberately conservative and
// deterministic so its output can be asserted exactly in tests.

var (
	headingRe    = regexp.MustCompile(`^\s{0,3}#{1,6}\s+(.+?)\s*$`)
	titleRe      = regexp.MustCompile(`(?i)^\s*(?:campaign\s+)?(?:title|name)\s*[:\-]\s*(.+?)\s*$`)
	objectiveRe  = regexp.MustCompile(`(?i)^\s*(?:objective|goal|purpose)s?\s*[:\-]\s*(.+?)\s*$`)
	audienceRe   = regexp.MustCompile(`(?i)^\s*(?:target\s+)?audience\s*[:\-]\s*(.+?)\s*$`)
	valuePropRe  = regexp.MustCompile(`(?i)^\s*(?:value\s+prop(?:osition)?|usp)\s*[:\-]\s*(.+?)\s*$`)
	productRe    = regexp.MustCompile(`(?i)^\s*(?:product|service|offering)\s*[:\-]\s*(.+?)\s*$`)
	industryRe   = regexp.MustCompile(`(?i)^\s*(?:industry|sector|vertical)\s*[:\-]\s*(.+?)\s*$`)
	budgetRe     = regexp.MustCompile(`(?i)^\s*budget\s*[:\-]\s*(.+?)\s*$`)
	timelineRe   = regexp.MustCompile(`(?i)^\s*(?:timeline|timing|schedule|deadline)\s*[:\-]\s*(.+?)\s*$`)
	constraintRe = regexp.MustCompile(`(?i)^\s*(?:constraints?|restrictions?|mandatories)\s*[:\-]\s*(.+?)\s*$`)
	bulletRe     = regexp.MustCompile(`^\s*[-*•]\s+(.+?)\s*$`)
	keyMsgHdrRe  = regexp.MustCompile(`(?i)^\s*(?:#{1,6}\s+)?key\s+messag(?:es|ing)\b`)
)

var knownPlatforms = []string{
	"instagram", "facebook", "tiktok", "youtube", "linkedin",
	"twitter", "snapchat", "pinterest", "spotify", "twitch",
}

// HeuristicExtract scans the text for labelled lines, bullet lists under a
// "key messages" heading and known platform names. It always returns a
// brief; the caller decides whether to flag it as fallback quality.
func HeuristicExtract(text string) briefModel.Brief {
	var brief briefModel.Brief
	var firstNonEmpty string
	inKeyMessages := false

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			inKeyMessages = false
			continue
		}
		if firstNonEmpty == "" {
			firstNonEmpty = line
		}

		if keyMsgHdrRe.MatchString(line) {
			inKeyMessages = true
			//inline form: "Key messages: a, b, c"
			if idx := strings.IndexAny(line, ":-"); idx >= 0 && idx < len(line)-1 {
				for _, msg := range strings.Split(line[idx+1:], ",") {
					appendKeyMessage(&brief, msg)
				}
			}
			continue
		}
		if inKeyMessages {
			if m := bulletRe.FindStringSubmatch(line); len(m) == 2 {
				appendKeyMessage(&brief, m[1])
				continue
			}
			inKeyMessages = false
		}

		captureScalar(&brief.Title, titleRe, line)
		captureScalar(&brief.Objective, objectiveRe, line)
		captureScalar(&brief.TargetAudience, audienceRe, line)
		captureScalar(&brief.ValueProposition, valuePropRe, line)
		captureScalar(&brief.Product, productRe, line)
		captureScalar(&brief.Industry, industryRe, line)
		captureScalar(&brief.Budget, budgetRe, line)
		captureScalar(&brief.Timeline, timelineRe, line)
		captureScalar(&brief.Constraints, constraintRe, line)

		if brief.Title == "" {
			if m := headingRe.FindStringSubmatch(line); len(m) == 2 {
				brief.Title = strings.TrimSpace(m[1])
			}
		}
	}

	if brief.Title == "" {
		brief.Title = deriveTitle(firstNonEmpty)
	}
	brief.Platforms = scanPlatforms(text)
	return brief
}

func captureScalar(target *string, re *regexp.Regexp, line string) {
	if *target != "" {
		return
	}
	if m := re.FindStringSubmatch(line); len(m) == 2 {
		*target = strings.TrimSpace(m[1])
	}
}

func appendKeyMessage(brief *briefModel.Brief, msg string) {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return
	}
	norm := strings.ToLower(msg)
	for _, existing := range brief.KeyMessages {
		if strings.ToLower(strings.TrimSpace(existing)) == norm {
			return
		}
	}
	brief.KeyMessages = append(brief.KeyMessages, msg)
}

func scanPlatforms(text string) []string {
	lower := strings.ToLower(text)
	var platforms []string
	for _, p := range knownPlatforms {
		if strings.Contains(lower, p) {
			platforms = append(platforms, p)
		}
	}
	return platforms
}

// deriveTitle turns the first non-empty line into a usable title, stripping
// markdown noise and overlong prose.
func deriveTitle(line string) string {
	line = strings.TrimLeft(line, "#*> \t")
	line = strings.TrimSpace(line)
	const maxTitle = 120
	if len(line) > maxTitle {
		if cut := strings.LastIndex(line[:maxTitle], " "); cut > 0 {
			return line[:cut]
		}
		return line[:maxTitle]
	}
	return line
}
