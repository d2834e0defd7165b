package kintone

var typeLabels = map[FieldType]string{
	FieldTypeSingleLineText:     "テキスト",
	FieldTypeMultiLineText:      "複数行テキスト",
	FieldTypeNumber:             "数値",
	FieldTypeDecimal:            "小数",
	FieldTypeDate:               "日付",
	FieldTypeTime:               "時刻",
	FieldTypeDateTime:           "日時",
	FieldTypeDropDown:           "ドロップダウン",
	FieldTypeRadioButton:        "ラジオボタン",
	FieldTypeCheckBox:           "チェックボックス",
	FieldTypeUserSelect:         "ユーザー選択",
	FieldTypeOrganizationSelect: "組織選択",
	FieldTypeGroupSelect:        "グループ選択",
	FieldTypeFile:               "ファイル",
	FieldTypeLink:               "リンク",
	FieldTypeRecordNumber:       "レコード番号",
	FieldTypeCreator:            "作成者",
	FieldTypeCreatedTime:        "作成日時",
	FieldTypeModifier:           "更新者",
	FieldTypeUpdatedTime:        "更新日時",
	FieldTypeStatus:             "ステータス",
	FieldTypeCategory:           "カテゴリ",
	FieldTypeCalc:               "計算",
	FieldTypeLookup:             "ルックアップ",
	FieldTypeReferenceTable:     "関連レコード一覧",
}

// Label returns the Japanese display name of t, or t itself when unmapped.
func (t FieldType) Label() string {
	if label, ok := typeLabels[t]; ok {
		return label
	}
	return string(t)
}
