package extractor

// Selectors for the pick'em pool page. The page is MUI-rendered; the hashed
// mui-style classes are part of the deployed stylesheet and are what the
// page actually exposes for the odds/stats tables.
const (
	// ContainerSelector matches one element per matchup, in display order.
	ContainerSelector = `div.MuiBox-root div.MuiStack-root[data-cy]`

	// AnalysisButtonSelector opens the matchup analysis panel, scoped to a
	// container.
	AnalysisButtonSelector = `button[data-cy="matchup-analysis"]`

	// PanelSelector matches the analysis panel once it is open.
	PanelSelector = `div.MuiDialog-root`

	// PanelCloseSelector matches the panel's X button glyph.
	PanelCloseSelector = `svg.MuiSvgIcon-root path[d^="M18.3 5.7"]`

	// Side selectors, scoped to a container. The selected side carries the
	// item-selected class.
	AwaySideSelector         = `div.MuiStack-root.left-side`
	HomeSideSelector         = `div.MuiStack-root.right-side`
	AwaySelectedSelector     = `div.MuiStack-root.left-side.item-selected`
	HomeSelectedSelector     = `div.MuiStack-root.right-side.item-selected`
	teamNameSelector         = `h3.MuiTypography-h3`
	teamRecordSelector       = `span.MuiTypography-misc`
	gameTimeSelector         = `h6.MuiTypography-subtitle2`
	networkSelector          = `div.MuiBox-root h6.MuiTypography-subtitle2:nth-child(3)`
	latestOddsSelector       = `div.MuiStack-root.latest-odds`
	oddsBoxSelector          = `div.MuiBox-root.mui-style-1wwjoop`
	openingOddsSelector      = `div.MuiStack-root.table-footer div.MuiStack-root`
	expertEntrySelector      = `div.MuiTabs-list div.MuiStack-root[id^="expert-"]`
	statTeamSectionSelector  = `div.MuiStack-root.mui-style-1i67s9, div.MuiStack-root.mui-style-1sqwbr3`
	statSectionSelector      = `div.MuiStack-root.mui-style-10p98jm`
	statRowSelector          = `div.MuiStack-root.mui-style-13na5pa`
	avatarImageSelector      = `div.MuiAvatar-root img`
	bodyTextSelector         = `p.MuiTypography-body1`
	statValueSelector        = `p.MuiTypography-body2`
	expertNameSelector       = `h6.MuiTypography-subtitle1`
	expertRoleSelector       = `span.MuiTypography-misc`
	expertRecordSelector     = `span.MuiTypography-menu`
	expertPickImageSelector  = `div.MuiStack-root div.MuiAvatar-root img`
	expertPickTextSelector   = `div.MuiStack-root span.MuiTypography-misc`
)
