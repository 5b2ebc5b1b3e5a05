// Package main provides localization for the frameplay CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Root command
		"Play animated images with bounded frame buffering.": "フレームバッファを制限しながらアニメーション画像を再生します。",

		// Play command
		"Playing %s (%d frames, one pass %s)": "%s を再生中（%dフレーム、1周 %s）",
		"Interrupted":                         "中断されました",
		"Source changed, reloading":           "ソースが変更されたため再読み込みします",
		"Reload failed: %v":                   "再読み込みに失敗しました: %v",
		"Playback finished after %d frames":   "%dフレームで再生が終了しました",
		"Failed to write frame %d: %v":        "フレーム%dの書き込みに失敗しました: %v",

		// Export command
		"Exported %d frames to %s":             "%dフレームを%sに書き出しました",
		"Frame %d could not be decoded, skipped": "フレーム%dはデコードできなかったためスキップしました",

		// Info command
		"Source":        "ソース",
		"Frames":        "フレーム数",
		"Size":          "サイズ",
		"Loop duration": "1周の長さ",
		"Loops":         "ループ回数",
		"forever":       "無限",

		// Version command
		"frameplay version %s": "frameplay バージョン %s",
	})
}
