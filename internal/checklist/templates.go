package checklist

import "github.com/vbonduro/depositdefender/internal/domain"

var templates = map[domain.RoomType]Template{
	domain.RoomKitchen: {
		RoomType: domain.RoomKitchen,
		Categories: []Category{
			{"Appliances", []Entry{
				{"Refrigerator", "Check interior, exterior, and functionality", true},
				{"Oven/Range", "Check burners, oven interior, and exterior cleanliness", true},
				{"Dishwasher", "Check interior, filters, and exterior condition", true},
				{"Microwave", "Check interior and exterior cleanliness", false},
				{"Garbage Disposal", "Test functionality and check for odors", false},
				{"Range Hood", "Check filters, fan, and light functionality", true},
			}},
			{"Cabinets & Storage", []Entry{
				{"Cabinet Doors", "Check alignment, hinges, and handles", true},
				{"Cabinet Interior", "Check for stains, damage, or shelf issues", true},
				{"Drawers", "Check slides, alignment, and interior condition", true},
				{"Pantry", "Check shelving, door, and interior condition", false},
			}},
			{"Countertops & Surfaces", []Entry{
				{"Countertops", "Check for scratches, stains, or damage", true},
				{"Backsplash", "Check tiles, grout, and overall condition", true},
				{"Sink", "Check for scratches, stains, and faucet operation", true},
			}},
			{"Plumbing", []Entry{
				{"Faucet", "Check operation, leaks, and mineral buildup", true},
				{"Water Pressure", "Test hot and cold water pressure", true},
				{"Under Sink Plumbing", "Check for leaks or water damage", true},
			}},
			{"Flooring & Walls", []Entry{
				{"Flooring", "Check for scratches, stains, or loose tiles", true},
				{"Walls", "Check paint condition and any damage", true},
				{"Baseboards", "Check condition and attachment", true},
			}},
		},
	},

	domain.RoomBathroom: {
		RoomType: domain.RoomBathroom,
		Categories: []Category{
			{"Fixtures", []Entry{
				{"Toilet", "Check functionality, stability, and cleanliness", true},
				{"Bathtub/Shower", "Check for cracks, stains, and functionality", true},
				{"Sink/Vanity", "Check condition and water damage", true},
				{"Faucets", "Check operation and any leaks", true},
			}},
			{"Tile & Surfaces", []Entry{
				{"Floor Tiles", "Check for cracks, loose tiles, or damage", true},
				{"Wall Tiles", "Check condition around wet areas", true},
				{"Grout", "Check for missing, cracked, or discolored grout", true},
				{"Caulking", "Check around tub, shower, and sink", true},
			}},
			{"Ventilation & Lighting", []Entry{
				{"Exhaust Fan", "Test functionality and check for dust buildup", true},
				{"Light Fixtures", "Check operation and condition", true},
				{"GFCI Outlets", "Test reset functionality", true},
			}},
			{"Storage & Accessories", []Entry{
				{"Medicine Cabinet", "Check door operation and interior condition", false},
				{"Towel Bars", "Check mounting and stability", false},
				{"Mirror", "Check for cracks or damage", true},
			}},
		},
	},

	domain.RoomBedroom: {
		RoomType: domain.RoomBedroom,
		Categories: []Category{
			{"Walls & Ceiling", []Entry{
				{"Paint Condition", "Check for scuffs, holes, or damage", true},
				{"Nail Holes", "Document any holes from pictures or mounting", true},
				{"Ceiling", "Check for stains, cracks, or damage", true},
				{"Baseboards", "Check condition and gaps", true},
			}},
			{"Flooring", []Entry{
				{"Carpet", "Check for stains, wear, or damage", true},
				{"Hardwood/Laminate", "Check for scratches or water damage", true},
				{"Transitions", "Check strips between different flooring", false},
			}},
			{"Closet", []Entry{
				{"Closet Doors", "Check operation and alignment", true},
				{"Closet Rod", "Check mounting and stability", true},
				{"Shelving", "Check condition and mounting", false},
				{"Closet Interior", "Check walls and flooring inside closet", true},
			}},
			{"Windows & Fixtures", []Entry{
				{"Windows", "Check operation, locks, and glass condition", true},
				{"Window Treatments", "Check blinds, curtains, or shades if provided", false},
				{"Light Fixtures", "Check operation and condition", true},
				{"Ceiling Fan", "Check operation and stability", false},
			}},
			{"Electrical", []Entry{
				{"Outlets", "Test functionality of all outlets", true},
				{"Light Switches", "Test all switches and dimmers", true},
			}},
		},
	},

	domain.RoomLiving: {
		RoomType: domain.RoomLiving,
		Categories: []Category{
			{"Walls & Paint", []Entry{
				{"Wall Paint", "Check for scuffs, scratches, or fading", true},
				{"Nail Holes", "Document holes from artwork or wall mounts", true},
				{"Accent Walls", "Check condition of any special wall treatments", false},
				{"Crown Molding", "Check for gaps or damage", false},
			}},
			{"Flooring", []Entry{
				{"Carpet", "Check for stains, wear patterns, or damage", true},
				{"Hardwood", "Check for scratches, dents, or water damage", true},
				{"Area Rugs", "Check condition if provided by landlord", false},
			}},
			{"Windows & Doors", []Entry{
				{"Windows", "Check operation, seals, and glass condition", true},
				{"Window Frames", "Check for damage or paint issues", true},
				{"Interior Doors", "Check operation and finish condition", true},
				{"Door Hardware", "Check handles, locks, and hinges", true},
			}},
			{"Lighting & Electrical", []Entry{
				{"Ceiling Lights", "Test all overhead lighting", true},
				{"Table/Floor Lamps", "Check any provided lighting fixtures", false},
				{"Electrical Outlets", "Test all outlets for functionality", true},
				{"Cable/Internet Outlets", "Check condition of media connections", false},
			}},
			{"Built-in Features", []Entry{
				{"Fireplace", "Check condition and safety features", false},
				{"Built-in Shelving", "Check stability and condition", false},
				{"Entertainment Center", "Check any built-in media storage", false},
			}},
		},
	},

	domain.RoomDining: {
		RoomType: domain.RoomDining,
		Categories: []Category{
			{"Walls & Surfaces", []Entry{
				{"Wall Condition", "Check paint and any damage", true},
				{"Wainscoting", "Check condition if present", false},
				{"Chair Rail", "Check mounting and condition", false},
			}},
			{"Flooring", []Entry{
				{"Flooring Condition", "Check for damage under dining furniture area", true},
				{"Floor Protection", "Check condition of any protective mats", false},
			}},
			{"Lighting & Windows", []Entry{
				{"Chandelier/Pendant", "Check condition and operation", false},
				{"Natural Light", "Check window condition and treatments", true},
				{"Light Switches", "Test dimmer functionality if present", true},
			}},
		},
	},

	domain.RoomCommonArea: {
		RoomType: domain.RoomCommonArea,
		Categories: []Category{
			{"Entryway", []Entry{
				{"Front Door", "Check operation, locks, and weatherstripping", true},
				{"Entry Flooring", "Check for wear or damage from foot traffic", true},
				{"Coat Closet", "Check door operation and interior condition", false},
			}},
			{"Hallways", []Entry{
				{"Hallway Lighting", "Test all hallway light fixtures", true},
				{"Hallway Flooring", "Check carpet, hardwood, or tile condition", true},
				{"Wall Condition", "Check for scuffs from foot traffic", true},
			}},
			{"Stairways", []Entry{
				{"Stair Treads", "Check for wear, looseness, or damage", false},
				{"Handrails", "Check stability and mounting", false},
				{"Stair Lighting", "Ensure adequate lighting for safety", false},
			}},
			{"Storage Areas", []Entry{
				{"Linen Closet", "Check shelving and door operation", false},
				{"Utility Closet", "Check condition and organization", false},
				{"Basement/Attic Access", "Check access points if applicable", false},
			}},
		},
	},

	domain.RoomOutdoor: {
		RoomType: domain.RoomOutdoor,
		Categories: []Category{
			{"Balcony/Patio", []Entry{
				{"Flooring/Decking", "Check for damage, stains, or safety issues", false},
				{"Railings", "Check stability and condition", false},
				{"Outdoor Furniture", "Check condition if provided", false},
			}},
			{"Yard/Garden", []Entry{
				{"Landscaping", "Document condition of plants and lawn", false},
				{"Fence/Boundary", "Check condition of property boundaries", false},
				{"Outdoor Fixtures", "Check lighting, outlets, or water spigots", false},
			}},
			{"Parking", []Entry{
				{"Garage", "Check door operation and interior condition", false},
				{"Driveway", "Check for cracks or damage", false},
				{"Parking Space", "Document assigned parking area condition", false},
			}},
		},
	},
}
