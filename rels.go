package webfinger

// RelNames maps well-known link relation URIs to friendly short names.
var RelNames = map[string]string{
	"http://activitystrea.ms/spec/1.0":                         "activity_streams",
	"http://webfinger.net/rel/avatar":                          "avatar",
	"http://microformats.org/profile/hcard":                    "hcard",
	"http://specs.openid.net/auth/2.0/provider":                "open_id",
	"http://ns.opensocial.org/2008/opensocial/activitystreams": "opensocial",
	"http://portablecontacts.net/spec/1.0":                     "portable_contacts",
	"http://webfinger.net/rel/profile-page":                    "profile",
	"http://webfist.org/spec/rel":                              "webfist",
	"http://gmpg.org/xfn/11":                                   "xfn",
}

// RelURIs is the inverse of RelNames: friendly short name to URI.
var RelURIs = make(map[string]string, len(RelNames))

func init() {
	for uri, name := range RelNames {
		RelURIs[name] = uri
	}
}

// relURI resolves a friendly relation name to its URI. Unknown names
// pass through unchanged.
func relURI(relation string) string {
	if uri, ok := RelURIs[relation]; ok {
		return uri
	}
	return relation
}
