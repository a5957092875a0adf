package pptxhtml

import (
	"encoding/xml"
)

// XML structures for slide, layout and master parts. Element names are
// matched by local name so the p:, a: and mc: prefixes need no namespace tags.

type xmlPoint struct {
	X int64 `xml:"x,attr"`
	Y int64 `xml:"y,attr"`
}

type xmlSize struct {
	CX int64 `xml:"cx,attr"`
	CY int64 `xml:"cy,attr"`
}

type xmlXfrm struct {
	Off   *xmlPoint `xml:"off"`
	Ext   *xmlSize  `xml:"ext"`
	ChOff *xmlPoint `xml:"chOff"`
	ChExt *xmlSize  `xml:"chExt"`
}

type xmlVal struct {
	Val string `xml:"val,attr"`
}

type xmlIntVal struct {
	Val int `xml:"val,attr"`
}

type xmlSysClr struct {
	Val     string `xml:"val,attr"`
	LastClr string `xml:"lastClr,attr"`
}

type xmlColorChoice struct {
	SrgbClr   *xmlVal    `xml:"srgbClr"`
	SchemeClr *xmlVal    `xml:"schemeClr"`
	SysClr    *xmlSysClr `xml:"sysClr"`
	PrstClr   *xmlVal    `xml:"prstClr"`
}

type xmlPattFill struct {
	Prst  string          `xml:"prst,attr"`
	FgClr *xmlColorChoice `xml:"fgClr"`
	BgClr *xmlColorChoice `xml:"bgClr"`
}

// xmlFillProps is the fill choice shared by spPr, bgPr, ln, tcPr and rPr.
type xmlFillProps struct {
	NoFill    *struct{}       `xml:"noFill"`
	SolidFill *xmlColorChoice `xml:"solidFill"`
	PattFill  *xmlPattFill    `xml:"pattFill"`
	GrpFill   *struct{}       `xml:"grpFill"`
}

type xmlLn struct {
	W *int64 `xml:"w,attr"`
	xmlFillProps
}

type xmlGd struct {
	Name string `xml:"name,attr"`
	Fmla string `xml:"fmla,attr"`
}

type xmlPrstGeom struct {
	Prst  string `xml:"prst,attr"`
	AvLst struct {
		Gd []xmlGd `xml:"gd"`
	} `xml:"avLst"`
}

type xmlSpPr struct {
	Xfrm     *xmlXfrm     `xml:"xfrm"`
	PrstGeom *xmlPrstGeom `xml:"prstGeom"`
	xmlFillProps
	Ln *xmlLn `xml:"ln"`
}

type xmlCNvPr struct {
	Name  string `xml:"name,attr"`
	Descr string `xml:"descr,attr"`
}

type xmlPh struct {
	Type string `xml:"type,attr"`
	Idx  string `xml:"idx,attr"`
}

type xmlNvPr struct {
	CNvPr xmlCNvPr `xml:"cNvPr"`
	NvPr  struct {
		Ph *xmlPh `xml:"ph"`
	} `xml:"nvPr"`
}

type xmlLatin struct {
	Typeface string `xml:"typeface,attr"`
}

type xmlRPr struct {
	Sz    int       `xml:"sz,attr"`
	B     string    `xml:"b,attr"`
	I     string    `xml:"i,attr"`
	U     string    `xml:"u,attr"`
	Latin *xmlLatin `xml:"latin"`
	xmlFillProps
}

type xmlSpacing struct {
	SpcPct *xmlIntVal `xml:"spcPct"`
	SpcPts *xmlIntVal `xml:"spcPts"`
}

type xmlPPr struct {
	Algn   string      `xml:"algn,attr"`
	LnSpc  *xmlSpacing `xml:"lnSpc"`
	SpcBef *xmlSpacing `xml:"spcBef"`
	SpcAft *xmlSpacing `xml:"spcAft"`
	DefRPr *xmlRPr     `xml:"defRPr"`
}

type xmlLstStyle struct {
	Lvl1PPr *xmlPPr `xml:"lvl1pPr"`
}

// xmlRunNode is one paragraph child: a run, a field or a line break.
type xmlRunNode struct {
	Break bool
	RPr   *xmlRPr
	Text  string
}

type xmlParagraph struct {
	PPr        *xmlPPr
	Nodes      []xmlRunNode
	EndParaRPr *xmlRPr
}

// UnmarshalXML keeps runs, fields and breaks in document order.
func (p *xmlParagraph) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "pPr":
				p.PPr = new(xmlPPr)
				if err := d.DecodeElement(p.PPr, &el); err != nil {
					return err
				}
			case "r", "fld":
				var run struct {
					RPr *xmlRPr `xml:"rPr"`
					T   string  `xml:"t"`
				}
				if err := d.DecodeElement(&run, &el); err != nil {
					return err
				}
				p.Nodes = append(p.Nodes, xmlRunNode{RPr: run.RPr, Text: run.T})
			case "br":
				p.Nodes = append(p.Nodes, xmlRunNode{Break: true})
				if err := d.Skip(); err != nil {
					return err
				}
			case "endParaRPr":
				p.EndParaRPr = new(xmlRPr)
				if err := d.DecodeElement(p.EndParaRPr, &el); err != nil {
					return err
				}
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}

type xmlBodyPr struct {
	Anchor string `xml:"anchor,attr"`
}

type xmlTxBody struct {
	BodyPr   xmlBodyPr      `xml:"bodyPr"`
	LstStyle *xmlLstStyle   `xml:"lstStyle"`
	P        []xmlParagraph `xml:"p"`
}

type xmlSp struct {
	NvSpPr    *xmlNvPr   `xml:"nvSpPr"`
	NvCxnSpPr *xmlNvPr   `xml:"nvCxnSpPr"`
	SpPr      xmlSpPr    `xml:"spPr"`
	TxBody    *xmlTxBody `xml:"txBody"`
}

func (sp *xmlSp) nv() *xmlNvPr {
	if sp.NvSpPr != nil {
		return sp.NvSpPr
	}
	if sp.NvCxnSpPr != nil {
		return sp.NvCxnSpPr
	}
	return &xmlNvPr{}
}

type xmlPic struct {
	NvPicPr  xmlNvPr `xml:"nvPicPr"`
	BlipFill struct {
		Blip struct {
			Embed string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships embed,attr"`
		} `xml:"blip"`
	} `xml:"blipFill"`
	SpPr xmlSpPr `xml:"spPr"`
}

type xmlTcPr struct {
	Anchor string `xml:"anchor,attr"`
	LnL    *xmlLn `xml:"lnL"`
	LnR    *xmlLn `xml:"lnR"`
	LnT    *xmlLn `xml:"lnT"`
	LnB    *xmlLn `xml:"lnB"`
	xmlFillProps
}

type xmlTc struct {
	TxBody *xmlTxBody `xml:"txBody"`
	TcPr   *xmlTcPr   `xml:"tcPr"`
}

type xmlTbl struct {
	Tr []struct {
		Tc []xmlTc `xml:"tc"`
	} `xml:"tr"`
}

type xmlGraphicFrame struct {
	NvGraphicFramePr xmlNvPr `xml:"nvGraphicFramePr"`
	Xfrm             xmlXfrm `xml:"xfrm"`
	Graphic          struct {
		GraphicData struct {
			Tbl *xmlTbl `xml:"tbl"`
		} `xml:"graphicData"`
	} `xml:"graphic"`
}

// xmlShapeNode holds exactly one shape-tree child.
type xmlShapeNode struct {
	Sp    *xmlSp
	Pic   *xmlPic
	Frame *xmlGraphicFrame
	Group *xmlShapeTree
}

// xmlShapeTree is a p:spTree or p:grpSp with its children in document order.
type xmlShapeTree struct {
	NvGrpSpPr *xmlNvPr
	GrpSpPr   *xmlSpPr
	Nodes     []xmlShapeNode
}

// UnmarshalXML collects the tree's shapes in z-order. Alternate content
// contributes its fallback shapes.
func (t *xmlShapeTree) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			var node xmlShapeNode
			switch el.Name.Local {
			case "nvGrpSpPr":
				t.NvGrpSpPr = new(xmlNvPr)
				err = d.DecodeElement(t.NvGrpSpPr, &el)
			case "grpSpPr":
				t.GrpSpPr = new(xmlSpPr)
				err = d.DecodeElement(t.GrpSpPr, &el)
			case "sp", "cxnSp":
				node.Sp = new(xmlSp)
				err = d.DecodeElement(node.Sp, &el)
			case "pic":
				node.Pic = new(xmlPic)
				err = d.DecodeElement(node.Pic, &el)
			case "graphicFrame":
				node.Frame = new(xmlGraphicFrame)
				err = d.DecodeElement(node.Frame, &el)
			case "grpSp":
				node.Group = new(xmlShapeTree)
				err = d.DecodeElement(node.Group, &el)
			case "AlternateContent":
				var alt struct {
					Fallback xmlShapeTree `xml:"Fallback"`
				}
				if err := d.DecodeElement(&alt, &el); err != nil {
					return err
				}
				t.Nodes = append(t.Nodes, alt.Fallback.Nodes...)
				continue
			default:
				err = d.Skip()
			}
			if err != nil {
				return err
			}
			if node.Sp != nil || node.Pic != nil || node.Frame != nil || node.Group != nil {
				t.Nodes = append(t.Nodes, node)
			}
		case xml.EndElement:
			return nil
		}
	}
}

type xmlBackground struct {
	BgPr *struct {
		xmlFillProps
	} `xml:"bgPr"`
}

type xmlTextStyles struct {
	TitleStyle *xmlLstStyle `xml:"titleStyle"`
	BodyStyle  *xmlLstStyle `xml:"bodyStyle"`
	OtherStyle *xmlLstStyle `xml:"otherStyle"`
}

// xmlSlidePart is the common shape of p:sld, p:sldLayout and p:sldMaster.
type xmlSlidePart struct {
	CSld struct {
		Name   string         `xml:"name,attr"`
		Bg     *xmlBackground `xml:"bg"`
		SpTree xmlShapeTree   `xml:"spTree"`
	} `xml:"cSld"`
	TxStyles *xmlTextStyles `xml:"txStyles"`
}
