package serving

import "fmt"

// DefaultRunRegion is the Cloud Run region used when a rewrite names none.
const DefaultRunRegion = "us-central1"

// Compile normalizes spec into a ServingConfig. A nil spec compiles to an
// empty config. The first invalid rule aborts compilation.
func Compile(spec *HostingSpec) (ServingConfig, error) {
	var out ServingConfig
	if spec == nil {
		return out, nil
	}

	if spec.Rewrites != nil {
		out.Rewrites = make([]Rewrite, 0, len(spec.Rewrites))
		for i, rule := range spec.Rewrites {
			rw, err := compileRewrite(i, rule)
			if err != nil {
				return ServingConfig{}, err
			}
			out.Rewrites = append(out.Rewrites, rw)
		}
	}

	if spec.Redirects != nil {
		out.Redirects = make([]Redirect, 0, len(spec.Redirects))
		for i, rule := range spec.Redirects {
			p, err := ExtractPattern(RuleRedirect, rule)
			if err != nil {
				return ServingConfig{}, fmt.Errorf("redirects[%d]: %w", i, err)
			}
			out.Redirects = append(out.Redirects, Redirect{
				Pattern:    p,
				Location:   rule.Destination,
				StatusCode: rule.Type,
			})
		}
	}

	if spec.Headers != nil {
		out.Headers = make([]Header, 0, len(spec.Headers))
		for i, rule := range spec.Headers {
			p, err := ExtractPattern(RuleHeader, rule)
			if err != nil {
				return ServingConfig{}, fmt.Errorf("headers[%d]: %w", i, err)
			}
			headers := make(map[string]string, len(rule.Headers))
			for _, h := range rule.Headers {
				headers[h.Key] = h.Value
			}
			out.Headers = append(out.Headers, Header{Pattern: p, Headers: headers})
		}
	}

	if spec.CleanURLs != nil {
		v := *spec.CleanURLs
		out.CleanURLs = &v
	}

	if spec.TrailingSlash != nil {
		if *spec.TrailingSlash {
			out.TrailingSlashBehavior = TrailingSlashAdd
		} else {
			out.TrailingSlashBehavior = TrailingSlashRemove
		}
	}

	if spec.AppAssociation != nil {
		v := *spec.AppAssociation
		out.AppAssociation = &v
	}

	if spec.I18n != nil {
		v := *spec.I18n
		out.I18n = &v
	}

	return out, nil
}

func compileRewrite(i int, rule RuleSpec) (Rewrite, error) {
	p, err := ExtractPattern(RuleRewrite, rule)
	if err != nil {
		return Rewrite{}, fmt.Errorf("rewrites[%d]: %w", i, err)
	}

	rw := Rewrite{Pattern: p}
	switch {
	case rule.Destination != "":
		rw.Target = PathTarget{Path: rule.Destination}
	case rule.Function != "":
		rw.Target = FunctionTarget{Function: rule.Function}
	case rule.DynamicLinks:
		rw.Target = DynamicLinksTarget{}
	case rule.Run != nil:
		region := rule.Run.Region
		if region == "" {
			region = DefaultRunRegion
		}
		rw.Target = CloudRunTarget{ServiceID: rule.Run.ServiceID, Region: region}
	default:
		return Rewrite{}, &UnknownRewriteError{Index: i, Raw: rule.Raw()}
	}
	return rw, nil
}
