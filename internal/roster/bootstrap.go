package roster

// The names and badge numbers of the chapter's first hundred or so members,
// predating the system. Used to fill roster gaps for brothers without
// accounts and to populate big brother choices. The list is indexed by
// badge, so entry 0 is a placeholder.
var initialBrotherList = []string{
	"---------",
	"Evan Gibson",
	"Joe Carroll",
	"Grant Michalski",
	"Stephen Descher",
	"Jason Etheridge",
	"Clint King",
	"Jared Kee",
	"Tim Alman",
	"Brian George",
	"John Lewis",
	"James Livermont",
	"Tom Cordner",
	"Chris Byrd",
	"Tod Cyr",
	"Luke Roberson",
	"Bill Peltier",
	"Bill Tice",
	"Noah Schellenberg",
	"Dean Charbonett",
	"Scott Wood",
	"Dave Maccaferri",
	"Matt Dawson",
	"Charles Frey",
	"Angel Hidalgo",
	"Blake LaFever",
	"Scott Percy",
	"William White",
	"Michael Hamilton",
	"Karl Ellis",
	"Matt Gray",
	"Andrew Clarke",
	"Josh McKenna",
	"Ede Kenney",
	"Michael Adams",
	"Daniel Acker",
	"Mark Johnson",
	"Will Fauquier",
	"Jason Hingerton",
	"Warren Stramiello",
	"Nick Maser",
	"Bradley Burks",
	"Samir Idnani",
	"Jeff Wysong",
	"Will Clarke",
	"Fred Claugus",
	"Charles Park",
	"Kevin Cook",
	"Will Dunivan",
	"Ben Manning",
	"Bini Rajan",
	"Brian Faust",
	"Jon Keen",
	"Alex Chen",
	"Mike Moerlins",
	"Mark Leong",
	"Josh Lannu",
	"Rohit Ogra",
	"Brian Henry",
	"Greg Mallegol",
	"Bobby Thompson",
	"Matt Horstman",
	"Paul Horton",
	"Chris Dew",
	"Steven Boockholdt",
	"Chris Branson",
	"Al Tanju",
	"Jeff Cozine",
	"Chris Puglisi",
	"Curtis Engsberg",
	"Lee Tschaepe",
	"Austin Pagano",
	"Charlie Holder",
	"Jake Erdmanczyk",
	"Travis Rhadans",
	"Tony West",
	"Mick Randel",
	"Daniel Young",
	"Sean Lynch",
	"Cole Martine",
	"Sean Taylor",
	"Ryan Anderson",
	"Chris Pool",
	"Corey Knight",
	"Chris Dreybus",
	"Chris Papa",
	"Cormac Ennis",
	"Alex Coleman",
	"Trey Rhodes",
	"David Black",
	"Rohit Joshi",
	"Ramitha Edirisinghe",
	"Michael Kilby",
	"Ben Mosher",
	"Christopher Reich",
	"Stephen Reich",
	"Daniel DeBruler",
	"Tyler Franklin",
	"William Dye",
	"William Cole",
	"Brendan Haber",
	"Mark Oh",
	"Samuel Lancaster",
	"Simisola Oludare",
	"James Kelley",
	"Christopher Chun",
	"Tony Choi",
	"Henry Skelton",
	"AJ Yllander",
	"CJ Oh",
	"Andrew Schuster",
	"Adam DeBruler",
	"John Brawley",
	"Joseph Reynolds",
}

// BootstrapSize returns the number of badges covered by the static roster.
func BootstrapSize() int {
	return len(initialBrotherList) - 1
}

// NameFromBadge returns a brother's name from the static roster, for
// brothers without accounts. Returns "" for badges outside the roster.
func NameFromBadge(badge int) string {
	if badge <= 0 || badge >= len(initialBrotherList) {
		return ""
	}
	return initialBrotherList[badge]
}
