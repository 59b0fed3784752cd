package pngnote

// MenuItem is a status bar entry. The first hot key doubles as the region ID
// used for mouse clicks.
type MenuItem struct {
	Title   string
	HotKeys []string
	Action  func()
}
