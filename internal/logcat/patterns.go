package logcat

import (
	"regexp"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/justinpbarnett/droidcat/internal/logger"
)

// ActivityManagerTag is the only tag whose messages can announce a process death.
const ActivityManagerTag = "ActivityManager"

const (
	tagCacheSize = 256
	regexChars   = `.*+?[]{}()|\^$`
)

// Registry owns every compiled pattern used while reading a logcat feed,
// plus a bounded cache of user tag filters. It is not safe for concurrent use.
type Registry struct {
	record *regexp.Regexp
	noise  *regexp.Regexp

	starts []startShape
	deaths []deathShape

	strictMode *regexp.Regexp
	gcStats    *regexp.Regexp

	processRow        *regexp.Regexp
	visibleActivities *regexp.Regexp
	visiblePackage    *regexp.Regexp

	tags *lru.Cache[string, *regexp.Regexp]
	log  logger.Logger
}

type startShape struct {
	re      *regexp.Regexp
	extract func(m []string) StartEvent
}

type deathShape struct {
	re      *regexp.Regexp
	extract func(m []string) DeathEvent
}

// NewRegistry compiles the built-in patterns. A nil logger discards warnings.
func NewRegistry(log logger.Logger) *Registry {
	if log == nil {
		log = logger.Nop()
	}
	cache, err := lru.New[string, *regexp.Regexp](tagCacheSize)
	if err != nil {
		panic(err)
	}
	return &Registry{
		record: regexp.MustCompile(`^([A-Z])/(.+?)\( *(\d+)\): (.*?)$`),
		noise:  regexp.MustCompile(`nativeGetEnabledTags`),
		starts: []startShape{
			{
				re: regexp.MustCompile(`^.*: Start proc (\d+):([a-zA-Z0-9._:]+)/[a-z0-9]+ for .*? \{(.*?)\}$`),
				extract: func(m []string) StartEvent {
					return StartEvent{PID: m[1], Package: m[2], Target: m[3]}
				},
			},
			{
				re: regexp.MustCompile(`^.*: Start proc ([a-zA-Z0-9._:]+) for ([a-z]+ [^:]+): pid=(\d+) uid=(\d+) gids=(.*)$`),
				extract: func(m []string) StartEvent {
					return StartEvent{PID: m[3], UID: m[4], GIDs: m[5], Package: m[1], Target: m[2]}
				},
			},
			{
				re: regexp.MustCompile(`^E/dalvikvm\(\s*(\d+)\): >>>>> ([a-zA-Z0-9._:]+) \[ userId:0 \| appId:(\d+) \]$`),
				extract: func(m []string) StartEvent {
					return StartEvent{PID: m[1], UID: m[3], Package: m[2]}
				},
			},
		},
		deaths: []deathShape{
			{
				re: regexp.MustCompile(`^Killing (\d+):([a-zA-Z0-9._:]+)/[^:]+: (.*)$`),
				extract: func(m []string) DeathEvent {
					return DeathEvent{PID: m[1], Package: m[2]}
				},
			},
			{
				re: regexp.MustCompile(`^No longer want ([a-zA-Z0-9._:]+) \(pid (\d+)\): .*$`),
				extract: func(m []string) DeathEvent {
					return DeathEvent{PID: m[2], Package: m[1]}
				},
			},
			{
				re: regexp.MustCompile(`^Process ([a-zA-Z0-9._:]+) \(pid (\d+)\) has died.?$`),
				extract: func(m []string) DeathEvent {
					return DeathEvent{PID: m[2], Package: m[1]}
				},
			},
		},
		strictMode:        regexp.MustCompile(`^(StrictMode policy violation)(; ~duration=)(\d+ ms)`),
		gcStats:           regexp.MustCompile(`^(GC_(?:CONCURRENT|FOR_M?ALLOC|EXTERNAL_ALLOC|EXPLICIT) )(freed <?\d+.)(, \d+% free \d+./\d+., )(paused \d+ms(?:\+\d+ms)?)`),
		processRow:        regexp.MustCompile(`^\w+\s+(\w+)\s+\w+\s+\w+\s+\w+\s+\w+\s+\w+\s+\w\s(.*?)$`),
		visibleActivities: regexp.MustCompile(`VisibleActivityProcess:\[\s*(?:(?:ProcessRecord\{\w+\s*\d+:(?:[a-zA-Z.]+)/\w+\})\s*)+\]`),
		visiblePackage:    regexp.MustCompile(`ProcessRecord\{\w+\s*\d+:([a-zA-Z.]+)/\w+\}`),
		tags:              cache,
		log:               log,
	}
}

// MatchTag reports whether tag satisfies any filter. Filters containing a
// pattern metacharacter are anchored at the start and matched as regular
// expressions; the rest match as plain substrings. A filter that does not
// compile never matches.
func (r *Registry) MatchTag(tag string, filters []string) bool {
	for _, f := range filters {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if !strings.ContainsAny(f, regexChars) {
			if strings.Contains(tag, f) {
				return true
			}
			continue
		}
		if re := r.tagPattern(f); re != nil && re.MatchString(tag) {
			return true
		}
	}
	return false
}

func (r *Registry) tagPattern(filter string) *regexp.Regexp {
	pattern := filter
	if !strings.HasPrefix(pattern, "^") {
		pattern = "^" + pattern
	}
	if re, ok := r.tags.Get(pattern); ok {
		return re
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		r.log.Warn("ignoring tag filter that does not compile", "filter", filter, "err", err)
		re = nil
	}
	r.tags.Add(pattern, re)
	return re
}

// ParseProcessTable reads `ps` output and returns pid -> process name for
// every row whose name passes accept. A nil accept keeps every row. The
// header row is skipped.
func (r *Registry) ParseProcessTable(out string, accept func(name string) bool) map[string]string {
	procs := make(map[string]string)
	for _, line := range strings.Split(out, "\n") {
		m := r.processRow.FindStringSubmatch(strings.TrimRight(line, "\r"))
		if m == nil {
			continue
		}
		if !isDigits(m[1]) {
			continue
		}
		if accept == nil || accept(m[2]) {
			procs[m[1]] = m[2]
		}
	}
	return procs
}

// VisiblePackages extracts the package names listed in the first
// VisibleActivityProcess block of an activity manager dump.
func (r *Registry) VisiblePackages(dump string) []string {
	block := r.visibleActivities.FindString(dump)
	if block == "" {
		return nil
	}
	var pkgs []string
	for _, m := range r.visiblePackage.FindAllStringSubmatch(block, -1) {
		pkgs = append(pkgs, m[1])
	}
	return pkgs
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
