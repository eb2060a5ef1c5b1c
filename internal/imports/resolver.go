package imports

import (
	"fmt"
	"sort"
	"strings"

	semver "github.com/Masterminds/semver/v3"
)

// Requirement is the merged constraint on one imported package.
type Requirement struct {
	Name       string
	Constraint string // empty means any version
}

// Index lists the published versions of each package.
type Index map[string][]string

// Resolution maps each required package to the version chosen for it.
type Resolution map[string]string

// ResolveOptions controls resolution behavior.
type ResolveOptions struct {
	// PreferLower picks the lowest satisfying version instead of the highest.
	PreferLower bool
}

// ConflictError indicates that no published version satisfies a requirement.
type ConflictError struct {
	Package string
	Reason  string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("cannot resolve %s: %s", e.Package, e.Reason)
}

// Resolve picks a version for every requirement. All conflicts are
// reported, not only the first.
func Resolve(index Index, reqs []Requirement, opts ResolveOptions) (Resolution, []error) {
	res := make(Resolution)
	var errs []error

	for _, req := range reqs {
		con, err := parseConstraint(req.Constraint)
		if err != nil {
			errs = append(errs, &ConflictError{Package: req.Name, Reason: err.Error()})
			continue
		}

		candidates, bad := versions(index[req.Name])
		if len(candidates) == 0 {
			reason := "no versions in index"
			if len(bad) > 0 {
				reason = "no valid versions in index (" + strings.Join(bad, ", ") + ")"
			}
			errs = append(errs, &ConflictError{Package: req.Name, Reason: reason})
			continue
		}

		sort.Slice(candidates, func(i, j int) bool {
			if opts.PreferLower {
				return candidates[i].LessThan(candidates[j])
			}
			return candidates[i].GreaterThan(candidates[j])
		})

		chosen := ""
		for _, v := range candidates {
			if con.Check(v) {
				chosen = v.Original()
				break
			}
		}
		if chosen == "" {
			errs = append(errs, &ConflictError{Package: req.Name, Reason: "no version satisfies " + con.String()})
			continue
		}
		res[req.Name] = chosen
	}
	return res, errs
}

// versions parses the published versions of a package, returning the ones
// that are not valid semantic versions separately.
func versions(raw []string) (ok []*semver.Version, bad []string) {
	for _, s := range raw {
		v, err := semver.NewVersion(s)
		if err != nil {
			bad = append(bad, s)
			continue
		}
		ok = append(ok, v)
	}
	return ok, bad
}

func parseConstraint(expr string) (*semver.Constraints, error) {
	if strings.TrimSpace(expr) == "" {
		return semver.NewConstraint(">=0.0.0")
	}
	return semver.NewConstraint(expr)
}
