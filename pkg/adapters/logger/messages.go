package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Frame store
		"animation parse failed: %v":                         "アニメーションの解析に失敗しました: %v",
		"preload count %d is not positive, store left empty": "プリロード数 %d が正ではないため、ストアを空のままにします",
		"prepared %d frames, window %d, loop target %d":      "%d フレームを準備しました (ウィンドウ %d, ループ目標 %d)",
		"frame %d decode failed: %v":                         "フレーム %d のデコードに失敗しました: %v",

		// Playback
		"start ignored, source not animatable": "ソースがアニメーション再生できないため開始を無視しました",
		"playback started":                     "再生を開始しました",
		"playback stopped":                     "再生を停止しました",
		"buffer miss at frame %d":              "フレーム %d でバッファミスが発生しました",

		// File watching
		"source file changed: %s": "ソースファイルが変更されました: %s",
		"watch error: %v":         "監視エラー: %v",
	})
}
