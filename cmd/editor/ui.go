package main

import (
	"bytes"
	"image/color"
	"log"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// Tool selects what a left-click stroke does on the canvas.
type Tool int

const (
	ToolBrush Tool = iota
	ToolErase
	ToolFill
)

func (t Tool) String() string {
	switch t {
	case ToolBrush:
		return "Brush"
	case ToolErase:
		return "Erase"
	case ToolFill:
		return "Fill"
	default:
		return "Unknown"
	}
}

type editorUI struct {
	*ebitenui.UI
}

func solidNineSlice(c color.Color) *image.NineSlice {
	return image.NewNineSliceColor(c)
}

func buildUI(onToolSelected func(tool Tool)) *editorUI {
	ui := &ebitenui.UI{}
	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	ui.Container = root

	s, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		// Editing still works without the toolbar; the brush tool
		// stays selected.
		log.Printf("toolbar disabled, font: %v", err)
		return &editorUI{UI: ui}
	}
	var fontFace text.Face = &text.GoTextFace{Source: s, Size: 14}

	ui.PrimaryTheme = newTheme(&fontFace)
	root.AddChild(buildToolbar(ui.PrimaryTheme, &fontFace, onToolSelected))
	return &editorUI{UI: ui}
}

func buildToolbar(theme *widget.Theme, fontFace *text.Face, onToolSelected func(tool Tool)) *widget.Container {
	buttonTextColor := &widget.ButtonTextColor{
		Idle:     color.Black,
		Hover:    color.Black,
		Pressed:  color.RGBA{0, 0, 200, 255},
		Disabled: color.Gray{Y: 128},
	}

	toolbar := widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(220, toolbarHeight),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionStart,
				VerticalPosition:   widget.AnchorLayoutPositionStart,
				StretchHorizontal:  true,
			}),
		),
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
				widget.RowLayoutOpts.Spacing(8),
			),
		),
		widget.ContainerOpts.BackgroundImage(solidNineSlice(color.RGBA{220, 220, 240, 255})),
	)

	tools := []Tool{ToolBrush, ToolErase, ToolFill}
	var buttons []*widget.Button
	for _, tool := range tools {
		btn := widget.NewButton(
			widget.ButtonOpts.Image(theme.ButtonTheme.Image),
			widget.ButtonOpts.Text(tool.String(), fontFace, buttonTextColor),
			widget.ButtonOpts.ToggleMode(),
			widget.ButtonOpts.WidgetOpts(
				widget.WidgetOpts.MinSize(48, 40),
			),
		)
		buttons = append(buttons, btn)
		toolbar.AddChild(btn)
	}

	elements := make([]widget.RadioGroupElement, 0, len(buttons))
	for _, b := range buttons {
		elements = append(elements, b)
	}
	group := widget.NewRadioGroup(
		widget.RadioGroupOpts.Elements(elements...),
		widget.RadioGroupOpts.ChangedHandler(func(args *widget.RadioGroupChangedEventArgs) {
			for i, b := range buttons {
				if args.Active == b {
					onToolSelected(tools[i])
					return
				}
			}
		}),
	)
	group.SetActive(buttons[0])

	return toolbar
}

func newTheme(fontFace *text.Face) *widget.Theme {
	return &widget.Theme{
		PanelTheme: &widget.PanelParams{
			BackgroundImage: solidNineSlice(color.RGBA{40, 40, 40, 255}),
		},
		ButtonTheme: &widget.ButtonParams{
			Image: &widget.ButtonImage{
				Idle:    solidNineSlice(color.RGBA{180, 180, 180, 255}),
				Hover:   solidNineSlice(color.RGBA{200, 200, 200, 255}),
				Pressed: solidNineSlice(color.RGBA{160, 160, 160, 255}),
			},
			TextFace: fontFace,
			TextColor: &widget.ButtonTextColor{
				Idle: color.Black,
			},
		},
	}
}
