package logcat

import "strings"

// SystemTags are framework and vendor tags that drown out application logs.
// Entries are regular expression fragments.
var SystemTags = []string{
	"Tile",
	"HWUI",
	"skia",
	"libc",
	"libEGL",
	"Dialog",
	"System",
	"OneTrace",
	"PreCache",
	"PlayCore",
	"BpBinder",
	`VRI\[.*?\]`,
	"AudioTrack",
	"ImeTracker",
	"cutils-dev",
	"JavaBinder",
	"FrameEvents",
	"QualityInfo",
	"ViewExtract",
	"FirebaseApp",
	"AdrenoUtils",
	"ViewRootImpl",
	"nativeloader",
	"WindowManager",
	"OverlayHandler",
	"ActivityThread",
	"SurfaceControl",
	`\[UAH_CLIENT\]`,
	"DisplayManager",
	"AdrenoGLES-.*?",
	"VelocityTracker",
	"OplusBracketLog",
	"PipelineWatcher",
	"AppWidgetManager",
	"BLASTBufferQueue",
	"InsetsController",
	"FirebaseSessions",
	"ProfileInstaller",
	"ExtensionsLoader",
	"SurfaceSyncGroup",
	"DesktopModeFlags",
	"AppCompatDelegate",
	"AppWidgetProvider",
	"AppWidgetHostView",
	"ApplicationLoaders",
	"OplusGraphicsEvent",
	"OplusAppHeapManager",
	"FirebaseCrashlytics",
	"ViewRootImplExtImpl",
	"BufferQueueConsumer",
	"BufferQueueProducer",
	"OplusCursorFeedback",
	"FirebaseInitProvider",
	"OplusActivityManager",
	"CompatChangeReporter",
	"SessionsDependencies",
	"OplusInputMethodUtil",
	"BufferPoolAccessor.*?",
	"OplusViewDebugManager",
	"WindowOnBackDispatcher",
	"CompactWindowAppManager",
	"OplusScrollToTopManager",
	"ResourcesManagerExtImpl",
	"ScrollOptimizationHelper",
	"OplusActivityThreadExtImpl",
	`DynamicFramerate\s*\[.*?\]`,
	"OplusViewDragTouchViewHelper",
	"OplusPredictiveBackController",
	"OplusSystemUINavigationGesture",
	"OplusInputMethodManagerInternal",
	"OplusCustomizeRestrictionManager",
	`oplus\.android\.OplusFrameworkFactoryImpl`,
}

// SystemTagFilters returns SystemTags as whole-tag patterns suitable for MatchTag.
func SystemTagFilters() []string {
	out := make([]string, len(SystemTags))
	for i, t := range SystemTags {
		out[i] = "^" + t + "$"
	}
	return out
}

// SplitFilters flattens repeated and comma-separated filter arguments,
// trimming blanks.
func SplitFilters(args []string) []string {
	var out []string
	for _, a := range args {
		for _, f := range strings.Split(a, ",") {
			if f = strings.TrimSpace(f); f != "" {
				out = append(out, f)
			}
		}
	}
	return out
}
