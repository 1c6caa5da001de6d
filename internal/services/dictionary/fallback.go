package dictionary

// fallbackWords keeps the server playable when no word list can be loaded
var fallbackWords = []string{
	"al", "alg", "and", "ank", "arm", "art", "as", "at",
	"bad", "bal", "bar", "barn", "bil", "bok", "bord", "brev", "bro", "by",
	"dag", "dal", "del", "dikt", "dom", "dorm", "dörr",
	"eld", "eka", "ek", "elak", "eller", "en", "er", "ett",
	"fall", "far", "fest", "fisk", "fot", "får",
	"gata", "get", "glas", "gran", "gris", "gud", "gård",
	"hand", "hare", "hatt", "hem", "hund", "hus", "hår",
	"is", "isa",
	"kaka", "kal", "kant", "katt", "katter", "klo", "ko", "kors", "kust", "kök",
	"lag", "lampa", "land", "lax", "lek", "lid", "lok", "lös",
	"mat", "mor", "mark", "mast", "mod",
	"natt", "nord", "näs", "nos",
	"ord", "ost", "orm", "ork",
	"park", "penna", "pil",
	"rad", "ratt", "ren", "ros", "rot", "råd",
	"sal", "sand", "sko", "sol", "sten", "stol", "strand", "sträng",
	"tak", "tal", "tand", "test", "testord", "tid", "tom", "torn", "trä", "tåg",
	"ugn", "ull", "under",
	"vag", "vals", "vind", "vit", "vår",
	"år", "ål", "äng", "älg", "ärt", "ö", "öl", "öra", "öst",
}
