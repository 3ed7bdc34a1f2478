package cli

// Indirection layer to allow stubbing in tests

var (
	fnRunFix      = runFix
	fnRunGenerate = runGenerate
	fnRunCreate   = runCreate
	fnRunChat     = runChat

	fnUpdateModels = updateModels
	fnListModels   = listModels

	fnServe = serve

	// post-create helpers
	fnInstallProject = installProject
	fnPreflight      = preflight
)
